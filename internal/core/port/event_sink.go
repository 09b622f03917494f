package port

import "reconciliation-service/internal/core/domain"

// EventSinkPort принимает именованные события прогона.
type EventSinkPort interface {
	Emit(e domain.Event)
}
