package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
)

// DestinationGatewayAdapter пишет объявления в семейства таблиц каталога objects_<t>.
type DestinationGatewayAdapter struct {
	pool *pgxpool.Pool
}

func NewDestinationGatewayAdapter(pool *pgxpool.Pool) (*DestinationGatewayAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool is nil")
	}
	return &DestinationGatewayAdapter{pool: pool}, nil
}

func (a *DestinationGatewayAdapter) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "DestinationGatewayAdapter",
		"method":    method,
	})
}

func (a *DestinationGatewayAdapter) Source(ctx context.Context, name string) (domain.SourceInfo, error) {
	var info domain.SourceInfo
	err := a.pool.QueryRow(ctx,
		`SELECT source_id, source_name, active FROM othersources WHERE source_name = $1`,
		strings.ToLower(name),
	).Scan(&info.ID, &info.Name, &info.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return info, fmt.Errorf("%w: %s is not registered in othersources", domain.ErrUnknownSource, name)
	}
	if err != nil {
		return info, fmt.Errorf("failed to load source %s: %w", name, err)
	}
	return info, nil
}

// ListIDs возвращает записи каталога источника по всем типам.
// При filter.Keys тип без ключей пропускается.
func (a *DestinationGatewayAdapter) ListIDs(ctx context.Context, sourceID int, filter domain.ListFilter) (domain.DestinationState, error) {
	state := make(domain.DestinationState, len(domain.PropertyTypes))
	for _, t := range domain.PropertyTypes {
		records := make(map[int64]domain.DestinationRecord)
		state[t] = records

		var keys []int64
		if filter.Keys != nil {
			if keys = filter.Keys[t]; len(keys) == 0 {
				continue
			}
		}

		tb := tablesFor(t)
		query := fmt.Sprintf(`
			SELECT src.object_id, src.source_object_id,
				COALESCE(src.data_hash, ''), COALESCE(src.address_hash, ''),
				(obj.id IS NOT NULL AND obj.date_deleted IS NULL)
			FROM %s src
			LEFT JOIN %s obj ON obj.id = src.object_id
			WHERE src.source_id = $1`, tb.hash, tb.data)
		args := []interface{}{sourceID}
		if filter.ActiveOnly {
			query += ` AND obj.id IS NOT NULL AND obj.date_deleted IS NULL`
		}
		if keys != nil {
			query += ` AND src.source_object_id = ANY($2)`
			args = append(args, keys)
		}

		rows, err := a.pool.Query(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to list ids of %s: %w", t, err)
		}
		for rows.Next() {
			var r domain.DestinationRecord
			if err := rows.Scan(&r.ObjectID, &r.SourceKey, &r.DataHash, &r.AddressHash, &r.Active); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan id of %s: %w", t, err)
			}
			records[r.SourceKey] = r
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to list ids of %s: %w", t, err)
		}
	}
	return state, nil
}

// Deactivate проставляет date_deleted объектам и сбрасывает их хэш данных.
func (a *DestinationGatewayAdapter) Deactivate(ctx context.Context, t domain.PropertyType, sourceID int, objectIDs []int64) error {
	if len(objectIDs) == 0 {
		return nil
	}
	repoLogger := a.logger(ctx, "Deactivate").WithFields(port.Fields{"property_type": string(t), "count": len(objectIDs)})
	tb := tablesFor(t)

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET date_deleted = NOW() WHERE id = ANY($1)`, tb.data),
		objectIDs,
	); err != nil {
		repoLogger.Error("Failed to mark objects deleted", err, nil)
		return fmt.Errorf("failed to deactivate objects of %s: %w", t, err)
	}
	if _, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET data_hash = $1 WHERE source_id = $2 AND object_id = ANY($3)`, tb.hash),
		domain.DeletedHashSentinel, sourceID, objectIDs,
	); err != nil {
		repoLogger.Error("Failed to reset data hashes", err, nil)
		return fmt.Errorf("failed to reset hashes of %s: %w", t, err)
	}
	return tx.Commit(ctx)
}

// Insert вставляет объекты одной транзакцией и возвращает id первого.
// Если база выдала id не подряд, вставка откатывается.
func (a *DestinationGatewayAdapter) Insert(ctx context.Context, t domain.PropertyType, listings []*domain.Listing) (int64, error) {
	if len(listings) == 0 {
		return 0, fmt.Errorf("nothing to insert into %s", t)
	}
	repoLogger := a.logger(ctx, "Insert").WithFields(port.Fields{"property_type": string(t), "count": len(listings)})

	cols := listings[0].Columns()
	names := columnNames(cols)
	data := make([][]interface{}, len(listings))
	for i, l := range listings {
		c := l.Columns()
		if len(c) != len(cols) {
			return 0, fmt.Errorf("listing %d of %s has %d columns, expected %d", l.SourceKey, t, len(c), len(cols))
		}
		data[i] = columnValues(c)
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	placeholderTypes := make([]string, len(names))
	var ids []int64
	for _, chunk := range chunkRows(data, len(names)) {
		sql := fmt.Sprintf(`INSERT INTO %s (%s) VALUES %s RETURNING id`,
			tablesFor(t).data, quoteIdents(names), buildValuesPlaceholders(placeholderTypes, len(chunk)))
		rows, err := tx.Query(ctx, sql, flatten(chunk)...)
		if err != nil {
			repoLogger.Error("Failed to insert objects", err, nil)
			return 0, fmt.Errorf("failed to insert objects of %s: %w", t, err)
		}
		chunkIDs, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			repoLogger.Error("Failed to read inserted ids", err, nil)
			return 0, fmt.Errorf("failed to read inserted ids of %s: %w", t, err)
		}
		ids = append(ids, chunkIDs...)
	}

	if err := checkContiguous(ids, len(listings)); err != nil {
		repoLogger.Error("Inserted ids are not contiguous", err, nil)
		return 0, fmt.Errorf("insert into %s: %w", t, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit insert into %s: %w", t, err)
	}
	return ids[0], nil
}

func checkContiguous(ids []int64, want int) error {
	if len(ids) != want {
		return fmt.Errorf("got %d ids for %d rows", len(ids), want)
	}
	for i, id := range ids {
		if id != ids[0]+int64(i) {
			return fmt.Errorf("id %d at position %d breaks the sequence started at %d", id, i, ids[0])
		}
	}
	return nil
}

// Update переписывает колонки объектов через UPDATE ... FROM (VALUES ...).
// При полном обновлении сбрасывается ocato: адрес мог поменяться.
func (a *DestinationGatewayAdapter) Update(ctx context.Context, t domain.PropertyType, kind domain.UpdateKind, rows []domain.RowUpdate) error {
	if len(rows) == 0 {
		return nil
	}
	repoLogger := a.logger(ctx, "Update").WithFields(port.Fields{"property_type": string(t), "count": len(rows), "full": kind == domain.UpdateFull})

	columnsOf := func(l *domain.Listing) []domain.Column {
		if kind == domain.UpdateFull {
			return l.Columns()
		}
		return l.DataColumns()
	}

	cols := columnsOf(rows[0].Listing)
	names := columnNames(cols)
	types := append([]string{"BIGINT"}, columnTypes(cols)...)
	data := make([][]interface{}, len(rows))
	for i, r := range rows {
		c := columnsOf(r.Listing)
		if len(c) != len(cols) {
			return fmt.Errorf("object %d of %s has %d columns, expected %d", r.ObjectID, t, len(c), len(cols))
		}
		data[i] = append([]interface{}{r.ObjectID}, columnValues(c)...)
	}

	set := setFromValues(names)
	if kind == domain.UpdateFull {
		set += ", ocato = NULL"
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, chunk := range chunkRows(data, len(types)) {
		sql := fmt.Sprintf(`
			UPDATE %s obj
			SET %s
			FROM (VALUES %s) AS vals(id, %s)
			WHERE obj.id = vals.id`,
			tablesFor(t).data, set, buildValuesPlaceholders(types, len(chunk)), quoteIdents(names))
		if _, err := tx.Exec(ctx, sql, flatten(chunk)...); err != nil {
			repoLogger.Error("Failed to update objects", err, nil)
			return fmt.Errorf("failed to update objects of %s: %w", t, err)
		}
	}
	return tx.Commit(ctx)
}

func (a *DestinationGatewayAdapter) InsertSubtypes(ctx context.Context, t domain.PropertyType, rows []domain.SubtypeRow) error {
	data := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		if r.SubtypeID == 0 {
			continue
		}
		data = append(data, []interface{}{r.ObjectID, r.SubtypeID})
	}
	if len(data) == 0 {
		return nil
	}
	sql := fmt.Sprintf(`INSERT INTO %s (object_id, commercial_type_id) VALUES %s ON CONFLICT DO NOTHING`,
		tablesFor(t).subtypes, buildValuesPlaceholders([]string{"BIGINT", "INT"}, len(data)))
	if _, err := a.pool.Exec(ctx, sql, flatten(data)...); err != nil {
		a.logger(ctx, "InsertSubtypes").Error("Failed to insert subtypes", err, port.Fields{"property_type": string(t)})
		return fmt.Errorf("failed to insert subtypes of %s: %w", t, err)
	}
	return nil
}

var hashColumnTypes = []string{"BIGINT", "INT", "INT", "BIGINT", "INT", "TEXT", "TEXT", "TEXT"}

// UpsertHash пишет строки учета источника; строка объекта перезаписывается целиком.
func (a *DestinationGatewayAdapter) UpsertHash(ctx context.Context, t domain.PropertyType, rows []domain.HashRow) error {
	rows = dedupeHashRows(rows)
	if len(rows) == 0 {
		return nil
	}
	data := make([][]interface{}, len(rows))
	for i, r := range rows {
		data[i] = []interface{}{
			r.ObjectID, r.TypeID, r.SourceID, r.SourceKey, r.SourceObjectTypeID,
			r.DataHash, r.AddressHash, r.GeoCell,
		}
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, chunk := range chunkRows(data, len(hashColumnTypes)) {
		sql := fmt.Sprintf(`
			INSERT INTO %s (object_id, type_id, source_id, source_object_id, source_object_type_id, data_hash, address_hash, geo_cell)
			VALUES %s
			ON CONFLICT (object_id) DO UPDATE SET
				source_object_type_id = EXCLUDED.source_object_type_id,
				data_hash = EXCLUDED.data_hash,
				address_hash = EXCLUDED.address_hash,
				geo_cell = EXCLUDED.geo_cell`,
			tablesFor(t).hash, buildValuesPlaceholders(hashColumnTypes, len(chunk)))
		if _, err := tx.Exec(ctx, sql, flatten(chunk)...); err != nil {
			a.logger(ctx, "UpsertHash").Error("Failed to upsert hash rows", err, port.Fields{"property_type": string(t)})
			return fmt.Errorf("failed to upsert hash rows of %s: %w", t, err)
		}
	}
	return tx.Commit(ctx)
}

// dedupeHashRows оставляет последнюю строку на объект: ON CONFLICT не трогает строку дважды.
func dedupeHashRows(rows []domain.HashRow) []domain.HashRow {
	pos := make(map[int64]int, len(rows))
	out := make([]domain.HashRow, 0, len(rows))
	for _, r := range rows {
		if i, ok := pos[r.ObjectID]; ok {
			out[i] = r
			continue
		}
		pos[r.ObjectID] = len(out)
		out = append(out, r)
	}
	return out
}
