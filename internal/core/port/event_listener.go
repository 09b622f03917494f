package port

import "context"

// EventListenerPort - компонент, который слушает внешние триггеры прогона
type EventListenerPort interface {
	// Start запускает слушателя и блокируется до остановки
	Start(ctx context.Context) error

	// Close корректно останавливает слушателя
	Close() error
}
