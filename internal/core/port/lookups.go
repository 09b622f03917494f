package port

import (
	"context"
	"reconciliation-service/internal/core/domain"
)

type RateProviderPort interface {
	CurrentRates(ctx context.Context) (domain.Rates, error)
}

// GeoCachePort - кэш ранее геокодированных адресов.
type GeoCachePort interface {
	Lookup(ctx context.Context, query string) (addressID int64, found bool, err error)
	Breakdown(ctx context.Context, addressID int64) (domain.AddressBreakdown, error)
}

// MetroDirectoryPort - справочник станций метро по регионам.
type MetroDirectoryPort interface {
	StationID(ctx context.Context, regionID int, name string) (int, error)
}
