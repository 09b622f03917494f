package usecases_port

import (
	"context"
	"reconciliation-service/internal/core/domain"
)

type ReconcileSourcePort interface {
	Execute(ctx context.Context, req domain.RunRequest) (*domain.RunSummary, error)
}
