package usecase

import (
	"strings"
	"time"

	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
)

// StatsCollector считает события прогона по корзинам и дублирует их в лог.
type StatsCollector struct {
	logger  port.LoggerPort
	buckets map[string]int

	updateFailures int
}

func NewStatsCollector(logger port.LoggerPort) *StatsCollector {
	return &StatsCollector{
		logger:  logger,
		buckets: make(map[string]int),
	}
}

func (s *StatsCollector) Emit(e domain.Event) {
	bucket := e.Bucket()
	s.buckets[bucket]++
	s.logger.Debug("Run event", port.Fields{
		"bucket":        bucket,
		"property_type": string(e.PropertyType),
		"source_key":    e.SourceKey,
		"value":         e.Value,
	})
}

// UpdateFailed учитывает проглоченный сбой обновления.
func (s *StatsCollector) UpdateFailed() {
	s.updateFailures++
}

func (s *StatsCollector) Count(bucket string) int {
	return s.buckets[bucket]
}

// Summary собирает итог прогона из накопленных корзин.
func (s *StatsCollector) Summary(runID string, req domain.RunRequest, startedAt, finishedAt time.Time) domain.RunSummary {
	sum := domain.RunSummary{
		RunID:      runID,
		TaskID:     req.TaskID,
		Source:     req.Source,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,

		Insert:     s.buckets[domain.EventInsertObj],
		NotUpdate:  s.buckets[domain.EventNotUpdateObj],
		FullUpdate: s.buckets[domain.EventFullUpdateObj],
		DataUpdate: s.buckets[domain.EventDataUpdateObj],
		Deleted:    s.buckets[domain.EventDeleteObj],
		Excluded:   s.buckets[domain.EventExcludeObj],

		InsertImg:  s.buckets[domain.EventInsertImg],
		DeleteImg:  s.buckets[domain.EventDeleteImg],
		ExcludeImg: s.buckets[domain.EventExcludeImg],

		UnknownIndex:   s.buckets[domain.EventUnknownIndex],
		Validation:     make(map[string]int),
		UpdateFailures: s.updateFailures,
	}

	prefix := domain.EventValidate + "."
	for bucket, n := range s.buckets {
		if reason, ok := strings.CutPrefix(bucket, prefix); ok {
			sum.Validation[reason] = n
		}
	}
	return sum
}
