package usecase

import (
	"context"

	"reconciliation-service/internal/core/domain"
	usecases_port "reconciliation-service/internal/core/port/usecases_port"
)

// Refresher - справочник, который перечитывается перед каждым прогоном.
type Refresher interface {
	Reload()
}

// RefreshingReconcileUseCase сбрасывает кэши справочников и передает прогон дальше.
// Ставится за RunCoordinator, чтобы отклоненный запуск не трогал кэши идущего прогона.
type RefreshingReconcileUseCase struct {
	next       usecases_port.ReconcileSourcePort
	refreshers []Refresher
}

func NewRefreshingReconcileUseCase(next usecases_port.ReconcileSourcePort, refreshers ...Refresher) *RefreshingReconcileUseCase {
	return &RefreshingReconcileUseCase{next: next, refreshers: refreshers}
}

func (uc *RefreshingReconcileUseCase) Execute(ctx context.Context, req domain.RunRequest) (*domain.RunSummary, error) {
	for _, r := range uc.refreshers {
		r.Reload()
	}
	return uc.next.Execute(ctx, req)
}
