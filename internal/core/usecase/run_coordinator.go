package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
	usecases_port "reconciliation-service/internal/core/port/usecases_port"
)

// RunCoordinator пропускает к движку только один прогон за раз, со всех триггеров.
// После прогона пишет журнал и публикует отчет завершенного прогона.
type RunCoordinator struct {
	mu        sync.Mutex
	reconcile usecases_port.ReconcileSourcePort
	reporter  port.RunReporterPort
	journal   port.RunJournalPort
	now       func() time.Time
}

// NewRunCoordinator: reporter и journal могут быть nil.
func NewRunCoordinator(reconcile usecases_port.ReconcileSourcePort, reporter port.RunReporterPort, journal port.RunJournalPort) *RunCoordinator {
	return &RunCoordinator{
		reconcile: reconcile,
		reporter:  reporter,
		journal:   journal,
		now:       time.Now,
	}
}

func (c *RunCoordinator) Execute(ctx context.Context, req domain.RunRequest) (*domain.RunSummary, error) {
	if !c.mu.TryLock() {
		return nil, domain.ErrRunInProgress
	}
	defer c.mu.Unlock()

	runID := uuid.NewString()
	ctx = contextkeys.ContextWithRunID(ctx, runID)
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "RunCoordinator",
		"source":    req.Source,
		"run_id":    runID,
		"task_id":   req.TaskID,
	})

	startedAt := c.now()
	summary, err := c.reconcile.Execute(ctx, req)

	rec := domain.RunRecord{
		RunID:      runID,
		TaskID:     req.TaskID,
		Source:     req.Source,
		StartedAt:  startedAt,
		FinishedAt: c.now(),
		Summary:    summary,
	}
	switch {
	case err == nil:
		rec.Status = domain.RunStatusCompleted
	case errors.Is(err, domain.ErrNoImportData):
		rec.Status = domain.RunStatusAborted
		rec.Error = err.Error()
	default:
		rec.Status = domain.RunStatusFailed
		rec.Error = err.Error()
	}

	if c.journal != nil {
		if jerr := c.journal.Record(ctx, rec); jerr != nil {
			logger.Error("Failed to record run in journal", jerr, nil)
		}
	}
	if err != nil {
		return nil, err
	}

	if c.reporter != nil {
		// прогон уже записан в каталог, сбой публикации его не отменяет
		if rerr := c.reporter.ReportRun(ctx, *summary); rerr != nil {
			logger.Error("Failed to publish run report", rerr, nil)
		}
	}
	return summary, nil
}
