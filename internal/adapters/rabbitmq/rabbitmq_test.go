package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reconciliation-service/internal/constants"
	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
	"reconciliation-service/pkg/rabbitmq/rabbitmq_consumer"
)

type mockReconcile struct{ mock.Mock }

func (m *mockReconcile) Execute(ctx context.Context, req domain.RunRequest) (*domain.RunSummary, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*domain.RunSummary)
	return s, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	return m.Called(ctx, routingKey, msg).Error(0)
}

type capturingLogger struct {
	fields port.Fields
	infos  []string
}

func (l *capturingLogger) Info(msg string, fields port.Fields)             { l.infos = append(l.infos, msg) }
func (l *capturingLogger) Warn(msg string, fields port.Fields)             {}
func (l *capturingLogger) Error(msg string, err error, fields port.Fields) {}
func (l *capturingLogger) Debug(msg string, fields port.Fields)            {}
func (l *capturingLogger) WithFields(fields port.Fields) port.LoggerPort {
	merged := port.Fields{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &capturingLogger{fields: merged}
}

func delivery(t *testing.T, body interface{}, traceID string) amqp.Delivery {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	d := amqp.Delivery{Body: raw, DeliveryTag: 7, Headers: amqp.Table{}}
	if traceID != "" {
		d.Headers["x-trace-id"] = traceID
	}
	return d
}

func TestTaskDTO_ToRunRequest(t *testing.T) {
	id := gofakeit.UUID()
	tests := []struct {
		name    string
		body    string
		want    domain.RunRequest
		wantErr error
	}{
		{
			name: "full task",
			body: `{"task_id":"` + id + `","source":"cian","batch_size":500}`,
			want: domain.RunRequest{TaskID: id, Source: "cian", BatchSize: 500},
		},
		{
			name: "no task id",
			body: `{"source":"avito"}`,
			want: domain.RunRequest{Source: "avito"},
		},
		{
			name:    "unknown source",
			body:    `{"source":"domclick"}`,
			wantErr: domain.ErrUnknownSource,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dto TaskDTO
			require.NoError(t, json.Unmarshal([]byte(tt.body), &dto))
			got, err := dto.toRunRequest()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := TaskDTO{Source: "avito", BatchSize: -1}.toRunRequest()
	assert.Error(t, err)
}

func TestMessageHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		ucErr       error
		wantErr     bool
		wantRequeue bool
	}{
		{"success acks", nil, false, false},
		{"no import data acks", domain.ErrNoImportData, false, false},
		{"run in progress requeues", domain.ErrRunInProgress, true, true},
		{"run failure drops", errors.New("destination down"), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockReconcile)
			uc.On("Execute", mock.Anything, domain.RunRequest{Source: "avito"}).Return(nil, tt.ucErr)
			a := &TasksConsumerAdapter{reconcileUC: uc, logger: &capturingLogger{}}

			err := a.messageHandler(context.Background(), delivery(t, TaskDTO{Source: "avito"}, ""))
			if !tt.wantErr {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Equal(t, tt.wantRequeue, errors.Is(err, rabbitmq_consumer.ErrRequeue))
			}
			uc.AssertExpectations(t)
		})
	}
}

func TestMessageHandler_BadBodyDoesNotRun(t *testing.T) {
	uc := new(mockReconcile)
	a := &TasksConsumerAdapter{reconcileUC: uc, logger: &capturingLogger{}}

	err := a.messageHandler(context.Background(), amqp.Delivery{Body: []byte("{oops")})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, rabbitmq_consumer.ErrRequeue))

	err = a.messageHandler(context.Background(), delivery(t, TaskDTO{Source: "yandex"}, ""))
	assert.ErrorIs(t, err, domain.ErrUnknownSource)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestMessageHandler_PropagatesTrace(t *testing.T) {
	uc := new(mockReconcile)
	var gotCtx context.Context
	uc.On("Execute", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotCtx = args.Get(0).(context.Context) }).
		Return(&domain.RunSummary{}, nil)
	a := &TasksConsumerAdapter{reconcileUC: uc, logger: &capturingLogger{}}

	require.NoError(t, a.messageHandler(context.Background(), delivery(t, TaskDTO{Source: "cian"}, "trace-1")))
	require.NotNil(t, gotCtx)
	assert.Equal(t, "trace-1", contextkeys.TraceIDFromContext(gotCtx))

	logger, ok := contextkeys.LoggerFromContext(gotCtx).(*capturingLogger)
	require.True(t, ok)
	assert.Equal(t, "trace-1", logger.fields["trace_id"])
	assert.Equal(t, "cian", logger.fields["source"])
}

func TestPkgLoggerBridge_ToFields(t *testing.T) {
	b := &PkgLoggerBridge{}
	fields := b.toFields("queue", "reconcile_tasks", 42, "skipped", "tag", 7, "dangling")
	assert.Equal(t, port.Fields{"queue": "reconcile_tasks", "tag": 7}, fields)
	assert.Empty(t, b.toFields())
}

func TestRunReportPublisher(t *testing.T) {
	_, err := NewRunReportPublisherAdapter(nil, constants.RoutingKeyReconcileResults)
	assert.Error(t, err)
	_, err = NewRunReportPublisherAdapter(new(mockPublisher), "")
	assert.Error(t, err)

	started := time.Date(2026, 5, 2, 3, 0, 0, 0, time.UTC)
	summary := domain.RunSummary{
		RunID:      gofakeit.UUID(),
		Source:     "avito",
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Insert:     2,
		Validation: map[string]int{},
	}

	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, constants.RoutingKeyReconcileResults, mock.MatchedBy(func(msg amqp.Publishing) bool {
		var body map[string]interface{}
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return false
		}
		return msg.DeliveryMode == amqp.Persistent &&
			msg.Headers["x-trace-id"] == "trace-9" &&
			body["run_id"] == summary.RunID &&
			body["duration_ms"] == float64(60000)
	})).Return(nil).Once()

	a, err := NewRunReportPublisherAdapter(pub, constants.RoutingKeyReconcileResults)
	require.NoError(t, err)

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-9")
	require.NoError(t, a.ReportRun(ctx, summary))
	pub.AssertExpectations(t)
}

func TestRunReportPublisher_RejectsInvalidReport(t *testing.T) {
	pub := new(mockPublisher)
	a, err := NewRunReportPublisherAdapter(pub, constants.RoutingKeyReconcileResults)
	require.NoError(t, err)

	err = a.ReportRun(context.Background(), domain.RunSummary{RunID: "not-a-uuid", Source: "avito"})
	assert.Error(t, err)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunReportPublisher_PublishFailure(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("channel closed"))
	a, err := NewRunReportPublisherAdapter(pub, constants.RoutingKeyReconcileResults)
	require.NoError(t, err)

	err = a.ReportRun(context.Background(), domain.RunSummary{RunID: gofakeit.UUID(), Source: "cian"})
	assert.ErrorContains(t, err, "channel closed")
}
