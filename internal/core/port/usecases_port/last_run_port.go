package usecases_port

import (
	"context"
	"reconciliation-service/internal/core/domain"
)

type GetLastRunPort interface {
	Execute(ctx context.Context, source string) (*domain.RunRecord, error)
}
