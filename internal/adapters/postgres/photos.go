package postgres

import (
	"context"
	"fmt"

	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
)

var photoColumnTypes = []string{"INT", "BIGINT", "INT", "TEXT"}

func (a *DestinationGatewayAdapter) InsertPhotos(ctx context.Context, t domain.PropertyType, rows []domain.PhotoRow) error {
	if len(rows) == 0 {
		return nil
	}
	data := make([][]interface{}, len(rows))
	for i, r := range rows {
		data[i] = []interface{}{r.SourceID, r.SourceKey, r.ListOrder, r.URL}
	}
	for _, chunk := range chunkRows(data, len(photoColumnTypes)) {
		sql := fmt.Sprintf(`INSERT INTO %s (source, source_id, list_order, url) VALUES %s ON CONFLICT DO NOTHING`,
			tablesFor(t).sourcePhotos, buildValuesPlaceholders(photoColumnTypes, len(chunk)))
		if _, err := a.pool.Exec(ctx, sql, flatten(chunk)...); err != nil {
			a.logger(ctx, "InsertPhotos").Error("Failed to insert photos", err, port.Fields{"property_type": string(t)})
			return fmt.Errorf("failed to insert photos of %s: %w", t, err)
		}
	}
	return nil
}

// DeletePhotos удаляет фото источника и соответствующие им фото каталога по (object_id, list_order).
func (a *DestinationGatewayAdapter) DeletePhotos(ctx context.Context, t domain.PropertyType, rows []domain.PhotoDeletion) error {
	if len(rows) == 0 {
		return nil
	}
	repoLogger := a.logger(ctx, "DeletePhotos").WithFields(port.Fields{"property_type": string(t), "count": len(rows)})
	tb := tablesFor(t)

	photoIDs := make([]int64, len(rows))
	objectIDs := make([]int64, len(rows))
	orders := make([]int32, len(rows))
	for i, r := range rows {
		photoIDs[i] = r.PhotoID
		objectIDs[i] = r.ObjectID
		orders[i] = int32(r.ListOrder)
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, tb.sourcePhotos), photoIDs); err != nil {
		repoLogger.Error("Failed to delete source photos", err, nil)
		return fmt.Errorf("failed to delete source photos of %s: %w", t, err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s p
		USING unnest($1::bigint[], $2::int[]) AS d(object_id, list_order)
		WHERE p.object_id = d.object_id AND p.list_order = d.list_order`, tb.photos),
		objectIDs, orders,
	); err != nil {
		repoLogger.Error("Failed to delete catalogue photos", err, nil)
		return fmt.Errorf("failed to delete photos of %s: %w", t, err)
	}
	return tx.Commit(ctx)
}

func (a *DestinationGatewayAdapter) ExistingPhotos(ctx context.Context, t domain.PropertyType, sourceID int, keys []int64) ([]domain.ExistingPhoto, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	rows, err := a.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, source_id, list_order, url
		FROM %s
		WHERE source = $1 AND source_id = ANY($2)
		ORDER BY source_id, list_order`, tablesFor(t).sourcePhotos),
		sourceID, keys,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load photos of %s: %w", t, err)
	}
	defer rows.Close()

	var out []domain.ExistingPhoto
	for rows.Next() {
		var p domain.ExistingPhoto
		if err := rows.Scan(&p.ID, &p.SourceKey, &p.ListOrder, &p.URL); err != nil {
			return nil, fmt.Errorf("failed to scan photo of %s: %w", t, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
