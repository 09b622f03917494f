package usecase

import (
	"context"
	"fmt"
	"slices"

	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
)

// photoReconciler сверяет фото существующих объявлений с сохраненными по URL:
// пропавшие удаляются, новые дописываются после максимального list_order объявления.
type photoReconciler struct {
	destination port.DestinationGatewayPort
	builder     *batchBuilder
	// reverse - новые фото вставляются в обратном порядке
	reverse bool
}

func (r *photoReconciler) reconcile(ctx context.Context, t domain.PropertyType, tb *domain.TypeBatch) error {
	if len(tb.UpdatePhotos) == 0 {
		return nil
	}

	keys := make([]int64, 0, len(tb.UpdatePhotos))
	for key := range tb.UpdatePhotos {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	existing, err := r.destination.ExistingPhotos(ctx, t, r.builder.sourceID, keys)
	if err != nil {
		return fmt.Errorf("existing photos of %s: %w", t, err)
	}
	byKey := make(map[int64][]domain.ExistingPhoto, len(keys))
	for _, p := range existing {
		byKey[p.SourceKey] = append(byKey[p.SourceKey], p)
	}

	var (
		deletions []domain.PhotoDeletion
		inserts   []domain.PhotoRow
	)
	for _, key := range keys {
		wanted := make(map[string]struct{}, len(tb.UpdatePhotos[key]))
		for _, u := range tb.UpdatePhotos[key] {
			wanted[u] = struct{}{}
		}

		have := make(map[string]struct{}, len(byKey[key]))
		maxOrder := -1
		for _, p := range byKey[key] {
			have[p.URL] = struct{}{}
			if p.ListOrder > maxOrder {
				maxOrder = p.ListOrder
			}
			if _, ok := wanted[p.URL]; !ok {
				deletions = append(deletions, domain.PhotoDeletion{
					PhotoID:   p.ID,
					ObjectID:  tb.UpdateObjects[key],
					ListOrder: p.ListOrder,
				})
				r.builder.events.Emit(domain.Event{Name: domain.EventDeleteImg, PropertyType: t, SourceKey: key, Value: p.URL})
			}
		}

		var fresh []string
		for _, u := range tb.UpdatePhotos[key] {
			if u == "" {
				continue
			}
			if _, ok := have[u]; ok {
				continue
			}
			have[u] = struct{}{}
			fresh = append(fresh, u)
		}
		if r.reverse {
			slices.Reverse(fresh)
		}
		inserts = append(inserts, r.builder.photoRows(t, key, fresh, maxOrder+1)...)
	}

	if len(deletions) > 0 {
		if err := r.destination.DeletePhotos(ctx, t, deletions); err != nil {
			return fmt.Errorf("delete photos of %s: %w", t, err)
		}
	}
	if len(inserts) > 0 {
		if err := r.destination.InsertPhotos(ctx, t, inserts); err != nil {
			return fmt.Errorf("insert photos of %s: %w", t, err)
		}
	}
	return nil
}
