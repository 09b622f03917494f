// Package sourcedb читает базу, которую наполняет парсер источника.
package sourcedb

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"

	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
)

type Config struct {
	Source string
	// Types сопоставляет тип объявления в базе источника с типом каталога.
	Types map[string]domain.PropertyType
	// ShareParam - номер параметра доли; объявления с ним исключаются из выборки. 0 - не исключать.
	ShareParam int
	Charset    Charset
	// Limiter ограничивает частоту запросов к базе источника; nil - без ограничения.
	Limiter *rate.Limiter
}

type SourceGatewayAdapter struct {
	pool   *pgxpool.Pool
	cfg    Config
	decode func(string) string
}

func NewSourceGatewayAdapter(pool *pgxpool.Pool, cfg Config) (*SourceGatewayAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("source %s: database pool is nil", cfg.Source)
	}
	if len(cfg.Types) == 0 {
		return nil, fmt.Errorf("source %s: type mapping is empty", cfg.Source)
	}
	decode, err := cfg.Charset.decoder()
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", cfg.Source, err)
	}
	return &SourceGatewayAdapter{pool: pool, cfg: cfg, decode: decode}, nil
}

// NewLimiter - не больше rps запросов в секунду; rps <= 0 отключает ограничение.
func NewLimiter(rps int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1)
}

// tokens возвращает типы источника, отображаемые в t, в стабильном порядке.
func (a *SourceGatewayAdapter) tokens(t domain.PropertyType) []string {
	var out []string
	for token, pt := range a.cfg.Types {
		if pt == t {
			out = append(out, token)
		}
	}
	slices.Sort(out)
	return out
}

func (a *SourceGatewayAdapter) wait(ctx context.Context) error {
	if a.cfg.Limiter == nil {
		return nil
	}
	return a.cfg.Limiter.Wait(ctx)
}

func (a *SourceGatewayAdapter) ListActiveIDs(ctx context.Context, t domain.PropertyType) (domain.ActiveSet, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":     "SourceGatewayAdapter",
		"method":        "ListActiveIDs",
		"source":        a.cfg.Source,
		"property_type": string(t),
	})

	set := domain.ActiveSet{}
	tokens := a.tokens(t)
	if len(tokens) == 0 {
		return set, nil
	}

	ids, err := a.selectIDs(ctx, queryActiveIDs, tokens)
	if err != nil {
		return set, fmt.Errorf("list active ids of %s: %w", t, err)
	}
	set.Keys = ids

	if a.cfg.ShareParam > 0 && len(ids) > 0 {
		shares, err := a.ListShareIDs(ctx, t)
		if err != nil {
			return set, err
		}
		if len(shares) > 0 {
			set.Keys, set.Excluded = excludeShares(ids, shares)
			logger.Info("Share listings excluded", port.Fields{"count": len(set.Excluded)})
		}
	}

	logger.Debug("Active ids loaded", port.Fields{"count": len(set.Keys)})
	return set, nil
}

// ListShareIDs - активные объявления типа, у которых задан параметр доли.
func (a *SourceGatewayAdapter) ListShareIDs(ctx context.Context, t domain.PropertyType) ([]int64, error) {
	tokens := a.tokens(t)
	if len(tokens) == 0 || a.cfg.ShareParam <= 0 {
		return nil, nil
	}
	ids, err := a.selectIDs(ctx, queryShareIDs, tokens, a.cfg.ShareParam)
	if err != nil {
		return nil, fmt.Errorf("list share ids of %s: %w", t, err)
	}
	return ids, nil
}

func (a *SourceGatewayAdapter) selectIDs(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	if err := a.wait(ctx); err != nil {
		return nil, err
	}
	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (a *SourceGatewayAdapter) FetchRows(ctx context.Context, t domain.PropertyType, keys []int64) ([]domain.RawRow, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":     "SourceGatewayAdapter",
		"method":        "FetchRows",
		"source":        a.cfg.Source,
		"property_type": string(t),
	})

	tokens := a.tokens(t)
	if len(tokens) == 0 || len(keys) == 0 {
		return nil, nil
	}
	if err := a.wait(ctx); err != nil {
		return nil, err
	}

	rows, err := a.pool.Query(ctx, queryFetchRows, tokens, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch rows of %s: %w", t, err)
	}
	defer rows.Close()

	var out []domain.RawRow
	for rows.Next() {
		var r wireRow
		if err := rows.Scan(
			&r.ID, &r.Type, &r.Name, &r.Act, &r.Subcategory, &r.Category, &r.Price,
			&r.CityID, &r.CityName, &r.RegionID, &r.RegionName, &r.Address,
			&r.Latitude, &r.Longitude, &r.Rooms, &r.RoomsInDeal, &r.Description,
			&r.CreatedAt, &r.UpdatedAt,
			&r.Images, &r.Metro, &r.Params, &r.Phones,
		); err != nil {
			return nil, fmt.Errorf("scan row of %s: %w", t, err)
		}
		out = append(out, r.toDomain(a.decode))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows of %s: %w", t, err)
	}

	if len(out) < len(keys) {
		logger.Debug("Some requested rows are gone", port.Fields{"requested": len(keys), "fetched": len(out)})
	}
	return out, nil
}

// excludeShares убирает доли из ids и возвращает их как исключенные.
func excludeShares(ids, shares []int64) ([]int64, map[int64]string) {
	share := make(map[int64]struct{}, len(shares))
	for _, id := range shares {
		share[id] = struct{}{}
	}
	kept := make([]int64, 0, len(ids))
	excluded := make(map[int64]string)
	for _, id := range ids {
		if _, ok := share[id]; ok {
			excluded[id] = domain.ReasonExcludeParts
			continue
		}
		kept = append(kept, id)
	}
	return kept, excluded
}
