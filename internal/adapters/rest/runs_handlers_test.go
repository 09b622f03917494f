package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
)

type mockReconcile struct{ mock.Mock }

func (m *mockReconcile) Execute(ctx context.Context, req domain.RunRequest) (*domain.RunSummary, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*domain.RunSummary)
	return s, args.Error(1)
}

type mockLastRun struct{ mock.Mock }

func (m *mockLastRun) Execute(ctx context.Context, source string) (*domain.RunRecord, error) {
	args := m.Called(ctx, source)
	rec, _ := args.Get(0).(*domain.RunRecord)
	return rec, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(msg string, fields port.Fields)             {}
func (nopLogger) Warn(msg string, fields port.Fields)             {}
func (nopLogger) Error(msg string, err error, fields port.Fields) {}
func (nopLogger) Debug(msg string, fields port.Fields)            {}
func (l nopLogger) WithFields(fields port.Fields) port.LoggerPort { return l }

func summaryFor(source string) *domain.RunSummary {
	started := time.Date(2026, 1, 10, 4, 0, 0, 0, time.UTC)
	return &domain.RunSummary{
		RunID:      gofakeit.UUID(),
		Source:     source,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Insert:     1,
		NotUpdate:  4,
		Validation: map[string]int{},
	}
}

func serve(t *testing.T, rec *mockReconcile, last *mockLastRun, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(NewRunsHandler(rec, last), nopLogger{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestHealthz(t *testing.T) {
	w := serve(t, new(mockReconcile), new(mockLastRun), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestStartRun_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		summary    *domain.RunSummary
		err        error
		wantStatus int
		wantBody   string
	}{
		{"completed", summaryFor("avito"), nil, http.StatusOK, `"insert":1`},
		{"run in progress", nil, domain.ErrRunInProgress, http.StatusConflict, "in progress"},
		{"no import data", nil, domain.ErrNoImportData, http.StatusOK, `"status":"aborted"`},
		{"source missing in catalogue", nil, domain.ErrUnknownSource, http.StatusNotFound, "unknown source"},
		{"source disabled", nil, domain.ErrSourceInactive, http.StatusConflict, "inactive"},
		{"run failed", nil, errors.New("insert failed"), http.StatusInternalServerError, "reconcile run failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := new(mockReconcile)
			rec.On("Execute", mock.Anything, domain.RunRequest{Source: "avito", BatchSize: 200}).Return(tt.summary, tt.err)

			w := serve(t, rec, new(mockLastRun), http.MethodPost, "/api/v1/runs/avito?batch_size=200")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			rec.AssertExpectations(t)
		})
	}
}

func TestStartRun_BadInput(t *testing.T) {
	rec := new(mockReconcile)

	w := serve(t, rec, new(mockLastRun), http.MethodPost, "/api/v1/runs/domclick")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, rec, new(mockLastRun), http.MethodPost, "/api/v1/runs/cian?batch_size=many")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, rec, new(mockLastRun), http.MethodPost, "/api/v1/runs/cian?batch_size=-5")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	rec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestStartRun_PassesTraceAndTask(t *testing.T) {
	rec := new(mockReconcile)
	var gotCtx context.Context
	rec.On("Execute", mock.Anything, domain.RunRequest{Source: "cian", TaskID: "manual-1"}).
		Run(func(args mock.Arguments) { gotCtx = args.Get(0).(context.Context) }).
		Return(summaryFor("cian"), nil)

	router := NewRouter(NewRunsHandler(rec, new(mockLastRun)), nopLogger{})
	traceID := gofakeit.UUID()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs/cian?task_id=manual-1", nil)
	req.Header.Set("X-Trace-ID", traceID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, traceID, contextkeys.TraceIDFromContext(gotCtx))
	assert.NoError(t, gotCtx.Err())
}

func TestGetLastRun(t *testing.T) {
	finished := time.Date(2026, 2, 1, 5, 0, 0, 0, time.UTC)
	completed := &domain.RunRecord{
		RunID:      gofakeit.UUID(),
		Source:     "avito",
		Status:     domain.RunStatusCompleted,
		StartedAt:  finished.Add(-time.Minute),
		FinishedAt: finished,
		Summary:    summaryFor("avito"),
	}
	failed := &domain.RunRecord{
		RunID:  gofakeit.UUID(),
		Source: "avito",
		Status: domain.RunStatusFailed,
		Error:  "destination down",
	}

	tests := []struct {
		name       string
		rec        *domain.RunRecord
		err        error
		wantStatus int
		check      func(t *testing.T, body map[string]interface{})
	}{
		{"completed run has report", completed, nil, http.StatusOK, func(t *testing.T, body map[string]interface{}) {
			assert.Equal(t, domain.RunStatusCompleted, body["status"])
			assert.Contains(t, body, "report")
		}},
		{"failed run has error only", failed, nil, http.StatusOK, func(t *testing.T, body map[string]interface{}) {
			assert.Equal(t, "destination down", body["error"])
			assert.NotContains(t, body, "report")
		}},
		{"no runs yet", nil, nil, http.StatusNotFound, nil},
		{"journal error", nil, errors.New("disk I/O error"), http.StatusInternalServerError, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := new(mockLastRun)
			last.On("Execute", mock.Anything, "avito").Return(tt.rec, tt.err)

			w := serve(t, new(mockReconcile), last, http.MethodGet, "/api/v1/runs/avito/last")
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.check != nil {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				tt.check(t, body)
			}
		})
	}
}
