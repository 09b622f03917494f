package port

import (
	"context"
	"reconciliation-service/internal/core/domain"
)

// SourceGatewayPort - чтение базы одного источника объявлений.
type SourceGatewayPort interface {
	// ListActiveIDs возвращает активные id типа в порядке возрастания.
	ListActiveIDs(ctx context.Context, t domain.PropertyType) (domain.ActiveSet, error)
	FetchRows(ctx context.Context, t domain.PropertyType, keys []int64) ([]domain.RawRow, error)
}
