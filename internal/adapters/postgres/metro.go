package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// У Ленинградской и Московской областей нет своих станций, они берут станции городов.
var metroRegionAliases = map[int]int{47: 78, 50: 77}

type stationIndex map[int]map[string]int

type metroLoader func(ctx context.Context) (stationIndex, error)

// MetroDirectoryAdapter - справочник станций, загружается при первом обращении.
type MetroDirectoryAdapter struct {
	load metroLoader

	mu       sync.Mutex
	stations stationIndex
}

func NewMetroDirectoryAdapter(pool *pgxpool.Pool) (*MetroDirectoryAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool is nil")
	}
	return &MetroDirectoryAdapter{load: func(ctx context.Context) (stationIndex, error) {
		return loadStations(ctx, pool)
	}}, nil
}

// StationID ищет станцию по точному имени; неизвестный регион или станция дают 0.
func (a *MetroDirectoryAdapter) StationID(ctx context.Context, regionID int, name string) (int, error) {
	if regionID == 0 || name == "" {
		return 0, nil
	}
	stations, err := a.index(ctx)
	if err != nil {
		return 0, err
	}
	if alias, ok := metroRegionAliases[regionID]; ok {
		regionID = alias
	}
	return stations[regionID][name], nil
}

// Reload сбрасывает справочник; следующий запрос загрузит его заново.
func (a *MetroDirectoryAdapter) Reload() {
	a.mu.Lock()
	a.stations = nil
	a.mu.Unlock()
}

func (a *MetroDirectoryAdapter) index(ctx context.Context) (stationIndex, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stations != nil {
		return a.stations, nil
	}
	stations, err := a.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load metro directory: %w", err)
	}
	a.stations = stations
	return stations, nil
}

func loadStations(ctx context.Context, pool *pgxpool.Pool) (stationIndex, error) {
	rows, err := pool.Query(ctx, `SELECT id, region_id, name FROM metro ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := make(stationIndex)
	for rows.Next() {
		var (
			id, region int
			name       string
		)
		if err := rows.Scan(&id, &region, &name); err != nil {
			return nil, err
		}
		if stations[region] == nil {
			stations[region] = make(map[string]int)
		}
		// при одинаковых именах побеждает станция с меньшим id
		if _, ok := stations[region][name]; !ok {
			stations[region][name] = id
		}
	}
	return stations, rows.Err()
}
