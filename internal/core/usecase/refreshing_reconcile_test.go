package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconciliation-service/internal/core/domain"
)

type countingRefresher struct{ reloads int }

func (r *countingRefresher) Reload() { r.reloads++ }

type stubReconcile struct {
	calls  int
	before func()
}

func (s *stubReconcile) Execute(ctx context.Context, req domain.RunRequest) (*domain.RunSummary, error) {
	s.calls++
	if s.before != nil {
		s.before()
	}
	return &domain.RunSummary{Source: req.Source}, nil
}

func TestRefreshingReconcile_ReloadsBeforeEachRun(t *testing.T) {
	metro := &countingRefresher{}
	next := &stubReconcile{}
	next.before = func() { assert.Equal(t, next.calls, metro.reloads) }

	uc := NewRefreshingReconcileUseCase(next, metro)
	for i := 0; i < 3; i++ {
		s, err := uc.Execute(context.Background(), domain.RunRequest{Source: "avito"})
		require.NoError(t, err)
		assert.Equal(t, "avito", s.Source)
	}
	assert.Equal(t, 3, metro.reloads)
}
