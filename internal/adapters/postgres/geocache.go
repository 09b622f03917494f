package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reconciliation-service/internal/core/domain"
)

// GeoCacheAdapter читает кэш геокодера. Сам геокодер не вызывается.
type GeoCacheAdapter struct {
	pool *pgxpool.Pool
}

func NewGeoCacheAdapter(pool *pgxpool.Pool) (*GeoCacheAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool is nil")
	}
	return &GeoCacheAdapter{pool: pool}, nil
}

func (a *GeoCacheAdapter) Lookup(ctx context.Context, query string) (int64, bool, error) {
	var id int64
	err := a.pool.QueryRow(ctx,
		`SELECT address_id FROM address_geocoder_cache WHERE query = $1 AND address_id IS NOT NULL LIMIT 1`,
		query,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up geocoder cache: %w", err)
	}
	return id, true, nil
}

func (a *GeoCacheAdapter) Breakdown(ctx context.Context, addressID int64) (domain.AddressBreakdown, error) {
	var b domain.AddressBreakdown
	err := a.pool.QueryRow(ctx, `
		SELECT COALESCE(a.region_id, 0), COALESCE(l6.name, ''), COALESCE(l8.name, ''),
			COALESCE(a.locality, ''), COALESCE(a.street, ''), COALESCE(a.district, ''), COALESCE(a.house_number, '')
		FROM addresses a
		LEFT JOIN address_levels l6 ON l6.id = a.level6_id
		LEFT JOIN address_levels l8 ON l8.id = a.level8_id
		WHERE a.id = $1`,
		addressID,
	).Scan(&b.RegionID, &b.Level6Name, &b.Level8Name, &b.Locality, &b.Street, &b.District, &b.HouseNumber)
	if err != nil {
		return b, fmt.Errorf("failed to load address %d: %w", addressID, err)
	}
	return b, nil
}
