package usecase

import (
	"context"
	"fmt"

	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
)

type GetLastRunUseCase struct {
	journal port.RunJournalPort
}

func NewGetLastRunUseCase(journal port.RunJournalPort) *GetLastRunUseCase {
	return &GetLastRunUseCase{journal: journal}
}

// Execute возвращает последний прогон источника или nil, если прогонов не было.
func (uc *GetLastRunUseCase) Execute(ctx context.Context, source string) (*domain.RunRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetLastRun",
		"source":   source,
	})

	rec, err := uc.journal.Last(ctx, source)
	if err != nil {
		logger.Error("Journal returned an error", err, nil)
		return nil, fmt.Errorf("failed to get last run of %s: %w", source, err)
	}
	return rec, nil
}
