package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reconciliation-service/internal/constants"
	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/contracts"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
	usecases_port "reconciliation-service/internal/core/port/usecases_port"
)

type RunsHandler struct {
	reconcileUC usecases_port.ReconcileSourcePort
	lastRunUC   usecases_port.GetLastRunPort
}

func NewRunsHandler(reconcileUC usecases_port.ReconcileSourcePort, lastRunUC usecases_port.GetLastRunPort) *RunsHandler {
	return &RunsHandler{reconcileUC: reconcileUC, lastRunUC: lastRunUC}
}

// StartRun выполняет прогон синхронно и отвечает его итогом.
func (h *RunsHandler) StartRun(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "StartRun",
		"source":  source,
	})

	if !constants.IsKnownSource(source) {
		handlerLogger.Warn("Unknown source requested", nil)
		WriteJSONError(w, http.StatusNotFound, "unknown source: "+source)
		return
	}
	batchSize, err := GetBatchSizeOrDefault(r)
	if err != nil {
		handlerLogger.Warn("Invalid 'batch_size' parameter", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "invalid batch_size value")
		return
	}

	// обрыв соединения клиента не должен прерывать запись в каталог посреди прогона
	ctx := contextkeys.ContextWithLogger(context.WithoutCancel(r.Context()), handlerLogger)
	summary, err := h.reconcileUC.Execute(ctx, domain.RunRequest{
		Source:    source,
		BatchSize: batchSize,
		TaskID:    r.URL.Query().Get("task_id"),
	})
	switch {
	case err == nil:
		RespondWithJSON(w, http.StatusOK, contracts.NewRunReport(*summary))
	case errors.Is(err, domain.ErrRunInProgress):
		WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoImportData):
		RespondWithJSON(w, http.StatusOK, RunAbortedResponse{
			Source: source,
			Status: domain.RunStatusAborted,
			Reason: err.Error(),
		})
	case errors.Is(err, domain.ErrUnknownSource):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSourceInactive):
		WriteJSONError(w, http.StatusConflict, err.Error())
	default:
		handlerLogger.Error("Reconcile run failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "reconcile run failed: "+err.Error())
	}
}

func (h *RunsHandler) GetLastRun(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	handlerLogger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "GetLastRun",
		"source":  source,
	})

	if !constants.IsKnownSource(source) {
		WriteJSONError(w, http.StatusNotFound, "unknown source: "+source)
		return
	}

	rec, err := h.lastRunUC.Execute(r.Context(), source)
	if err != nil {
		handlerLogger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "failed to read run journal")
		return
	}
	if rec == nil {
		WriteJSONError(w, http.StatusNotFound, "no runs recorded for "+source)
		return
	}
	RespondWithJSON(w, http.StatusOK, toRunRecordResponse(*rec))
}
