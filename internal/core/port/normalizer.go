package port

import (
	"context"
	"reconciliation-service/internal/core/domain"
)

// NormalizeEnv - состояние прогона, нужное нормализатору.
type NormalizeEnv struct {
	SourceID int
	Rates    domain.Rates
	Events   EventSinkPort
}

// NormalizerPort превращает строку источника в объявление.
// Отброшенная строка возвращается как Rejection, error - только для сбоев инфраструктуры.
type NormalizerPort interface {
	Source() string
	Normalize(ctx context.Context, env NormalizeEnv, row domain.RawRow, t domain.PropertyType) (*domain.Listing, *domain.Rejection, error)
}
