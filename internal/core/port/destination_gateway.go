package port

import (
	"context"
	"reconciliation-service/internal/core/domain"
)

// DestinationGatewayPort - запись в каталог назначения.
type DestinationGatewayPort interface {
	Source(ctx context.Context, name string) (domain.SourceInfo, error)

	ListIDs(ctx context.Context, sourceID int, filter domain.ListFilter) (domain.DestinationState, error)
	Deactivate(ctx context.Context, t domain.PropertyType, sourceID int, objectIDs []int64) error

	// Insert вставляет объекты и возвращает id первого; id пачки идут подряд.
	Insert(ctx context.Context, t domain.PropertyType, listings []*domain.Listing) (int64, error)
	Update(ctx context.Context, t domain.PropertyType, kind domain.UpdateKind, rows []domain.RowUpdate) error
	InsertSubtypes(ctx context.Context, t domain.PropertyType, rows []domain.SubtypeRow) error
	UpsertHash(ctx context.Context, t domain.PropertyType, rows []domain.HashRow) error

	InsertPhotos(ctx context.Context, t domain.PropertyType, rows []domain.PhotoRow) error
	DeletePhotos(ctx context.Context, t domain.PropertyType, rows []domain.PhotoDeletion) error
	ExistingPhotos(ctx context.Context, t domain.PropertyType, sourceID int, keys []int64) ([]domain.ExistingPhoto, error)
}
