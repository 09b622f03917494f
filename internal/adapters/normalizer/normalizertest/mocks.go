// Package normalizertest - тестовые двойники справочников для нормализаторов.
package normalizertest

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"reconciliation-service/internal/core/domain"
)

type MockGeoCache struct {
	mock.Mock
}

func (m *MockGeoCache) Lookup(ctx context.Context, query string) (int64, bool, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockGeoCache) Breakdown(ctx context.Context, addressID int64) (domain.AddressBreakdown, error) {
	args := m.Called(ctx, addressID)
	return args.Get(0).(domain.AddressBreakdown), args.Error(1)
}

type MockMetro struct {
	mock.Mock
}

func (m *MockMetro) StationID(ctx context.Context, regionID int, name string) (int, error) {
	args := m.Called(ctx, regionID, name)
	return args.Int(0), args.Error(1)
}

// Events собирает события прогона.
type Events struct {
	mu     sync.Mutex
	Events []domain.Event
}

func (e *Events) Emit(ev domain.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Events = append(e.Events, ev)
}

// Unknown возвращает значения событий unknownIndex.
func (e *Events) Unknown() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, ev := range e.Events {
		if ev.Name == domain.EventUnknownIndex {
			out = append(out, ev.Value)
		}
	}
	return out
}
