package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
)

type ratesLoader func(ctx context.Context) (map[string]float64, error)

// RateProviderAdapter берет последние курсы USD и EUR из currencies.
// Если в таблице курса нет, используется статический курс из конфигурации.
type RateProviderAdapter struct {
	load     ratesLoader
	fallback domain.Rates
}

func NewRateProviderAdapter(pool *pgxpool.Pool, fallback domain.Rates) (*RateProviderAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool is nil")
	}
	return &RateProviderAdapter{
		load:     func(ctx context.Context) (map[string]float64, error) { return loadRates(ctx, pool) },
		fallback: fallback,
	}, nil
}

func (a *RateProviderAdapter) CurrentRates(ctx context.Context) (domain.Rates, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "RateProviderAdapter",
		"method":    "CurrentRates",
	})

	loaded, err := a.load(ctx)
	if err != nil {
		return domain.Rates{}, fmt.Errorf("failed to load currency rates: %w", err)
	}

	rates := domain.Rates{USD: loaded["USD"], EUR: loaded["EUR"]}
	if rates.USD <= 0 {
		rates.USD = a.fallback.USD
		logger.Warn("USD rate is missing, using the configured one", port.Fields{"rate": rates.USD})
	}
	if rates.EUR <= 0 {
		rates.EUR = a.fallback.EUR
		logger.Warn("EUR rate is missing, using the configured one", port.Fields{"rate": rates.EUR})
	}
	if rates.USD <= 0 || rates.EUR <= 0 {
		return domain.Rates{}, fmt.Errorf("no currency rates: table currencies is empty and no static rates are configured")
	}
	return rates, nil
}

func loadRates(ctx context.Context, pool *pgxpool.Pool) (map[string]float64, error) {
	rows, err := pool.Query(ctx, `
		SELECT DISTINCT ON (code) code, rate::float8
		FROM currencies
		WHERE code IN ('USD', 'EUR')
		ORDER BY code, updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64, 2)
	for rows.Next() {
		var (
			code string
			rate float64
		)
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, err
		}
		out[code] = rate
	}
	return out, rows.Err()
}
