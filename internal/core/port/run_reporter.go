package port

import (
	"context"
	"reconciliation-service/internal/core/domain"
)

// RunReporterPort публикует итог завершенного прогона.
type RunReporterPort interface {
	ReportRun(ctx context.Context, summary domain.RunSummary) error
}

// RunJournalPort хранит историю прогонов.
type RunJournalPort interface {
	Record(ctx context.Context, rec domain.RunRecord) error
	Last(ctx context.Context, source string) (*domain.RunRecord, error)
}
