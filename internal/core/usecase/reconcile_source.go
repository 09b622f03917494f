package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"reconciliation-service/internal/contextkeys"
	"reconciliation-service/internal/core/domain"
	"reconciliation-service/internal/core/port"
	"reconciliation-service/internal/core/service/changedetect"
	"reconciliation-service/internal/core/service/validation"
)

// SourceBinding - все, что нужно движку для работы с одним источником.
type SourceBinding struct {
	Gateway    port.SourceGatewayPort
	Normalizer port.NormalizerPort
	// ReverseUpdatePhotos - новые фото существующих объявлений вставляются в обратном порядке.
	ReverseUpdatePhotos bool
}

type ReconcileConfig struct {
	BatchSize  int
	Validation validation.Config
	// UpdateFailureFatal: false - сбои обновлений и фото логируются и считаются, прогон идет дальше.
	UpdateFailureFatal bool
}

// ReconcileSourceUseCase сверяет объявления одного источника с каталогом:
// деактивирует пропавшие, вставляет новые и обновляет изменившиеся.
type ReconcileSourceUseCase struct {
	sources     map[string]SourceBinding
	destination port.DestinationGatewayPort
	rates       port.RateProviderPort
	cfg         ReconcileConfig
	now         func() time.Time
}

func NewReconcileSourceUseCase(
	sources map[string]SourceBinding,
	destination port.DestinationGatewayPort,
	rates port.RateProviderPort,
	cfg ReconcileConfig,
) *ReconcileSourceUseCase {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	return &ReconcileSourceUseCase{
		sources:     sources,
		destination: destination,
		rates:       rates,
		cfg:         cfg,
		now:         time.Now,
	}
}

// runState - состояние одного прогона, принадлежит только движку.
type runState struct {
	source    domain.SourceInfo
	binding   SourceBinding
	logger    port.LoggerPort
	stats     *StatsCollector
	env       port.NormalizeEnv
	validator *validation.Validator
	builder   *batchBuilder
	photos    *photoReconciler
	// status - все записи каталога (включая неактивные) по ключам импорта
	status domain.DestinationState
}

func (uc *ReconcileSourceUseCase) Execute(ctx context.Context, req domain.RunRequest) (*domain.RunSummary, error) {
	runID := contextkeys.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = contextkeys.ContextWithRunID(ctx, runID)
	}
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ReconcileSource",
		"source":   req.Source,
		"run_id":   runID,
	})
	ctx = contextkeys.ContextWithLogger(ctx, logger)

	binding, ok := uc.sources[req.Source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSource, req.Source)
	}
	info, err := uc.destination.Source(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("resolve source %s: %w", req.Source, err)
	}
	if !info.Active {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceInactive, req.Source)
	}
	rates, err := uc.rates.CurrentRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load currency rates: %w", err)
	}

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = uc.cfg.BatchSize
	}
	startedAt := uc.now()
	logger.Info("Run started", port.Fields{"source_id": info.ID, "batch_size": batchSize})

	stats := NewStatsCollector(logger)
	builder := newBatchBuilder(info.ID, stats)
	run := &runState{
		source:    info,
		binding:   binding,
		logger:    logger,
		stats:     stats,
		env:       port.NormalizeEnv{SourceID: info.ID, Rates: rates, Events: stats},
		validator: validation.New(uc.cfg.Validation).WithClock(uc.now),
		builder:   builder,
		photos: &photoReconciler{
			destination: uc.destination,
			builder:     builder,
			reverse:     binding.ReverseUpdatePhotos,
		},
	}

	importIDs, err := uc.collectImportIDs(ctx, run)
	if err != nil {
		return nil, err
	}

	if err := uc.deactivateStale(ctx, run, importIDs); err != nil {
		return nil, err
	}

	run.status, err = uc.destination.ListIDs(ctx, info.ID, domain.ListFilter{Keys: importIDs})
	if err != nil {
		return nil, fmt.Errorf("load destination records: %w", err)
	}

	pool := newIDPool(importIDs)
	for {
		t, keys, ok := pool.Next(batchSize)
		if !ok {
			break
		}
		if err := uc.processChunk(ctx, run, t, keys); err != nil {
			logger.Error("Run aborted", err, port.Fields{"property_type": string(t)})
			return nil, err
		}
	}

	summary := stats.Summary(runID, req, startedAt, uc.now())
	logger.Info("Run finished", port.Fields{
		"total":       summary.Total(),
		"insert":      summary.Insert,
		"not_update":  summary.NotUpdate,
		"full_update": summary.FullUpdate,
		"data_update": summary.DataUpdate,
		"deleted":     summary.Deleted,
		"excluded":    summary.Excluded,
	})
	return &summary, nil
}

// collectImportIDs собирает активные id источника по всем типам.
// Пустой импорт прерывает прогон до любых записей.
func (uc *ReconcileSourceUseCase) collectImportIDs(ctx context.Context, run *runState) (map[domain.PropertyType][]int64, error) {
	importIDs := make(map[domain.PropertyType][]int64)
	total := 0
	for _, t := range domain.PropertyTypes {
		set, err := run.binding.Gateway.ListActiveIDs(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("list active ids of %s: %w", t, err)
		}
		for key, reason := range set.Excluded {
			run.reject(t, key, domain.Reject(reason, ""))
		}
		if len(set.Keys) > 0 {
			importIDs[t] = set.Keys
			total += len(set.Keys)
		}
	}
	if total == 0 {
		run.logger.Warn("Source returned no active listings, run aborted", nil)
		return nil, domain.ErrNoImportData
	}
	run.logger.Info("Import ids collected", port.Fields{"count": total})
	return importIDs, nil
}

// deactivateStale снимает с публикации активные объекты каталога, которых нет в импорте.
// Сверяются все типы, в том числе те, по которым импорт пуст.
func (uc *ReconcileSourceUseCase) deactivateStale(ctx context.Context, run *runState, importIDs map[domain.PropertyType][]int64) error {
	active, err := uc.destination.ListIDs(ctx, run.source.ID, domain.ListFilter{ActiveOnly: true})
	if err != nil {
		return fmt.Errorf("load active destination records: %w", err)
	}

	for _, t := range domain.PropertyTypes {
		imported := make(map[int64]struct{}, len(importIDs[t]))
		for _, key := range importIDs[t] {
			imported[key] = struct{}{}
		}

		stale := make([]domain.DestinationRecord, 0)
		for key, rec := range active[t] {
			if _, ok := imported[key]; !ok {
				stale = append(stale, rec)
			}
		}
		slices.SortFunc(stale, func(a, b domain.DestinationRecord) int {
			return cmp.Compare(a.SourceKey, b.SourceKey)
		})
		for _, rec := range stale {
			run.builder.deactivate(t, rec)
		}
	}
	return uc.flush(ctx, run)
}

// processChunk нормализует, проверяет и классифицирует одну пачку ключей, затем сбрасывает ее в каталог.
func (uc *ReconcileSourceUseCase) processChunk(ctx context.Context, run *runState, t domain.PropertyType, keys []int64) error {
	logger := run.logger.WithFields(port.Fields{"property_type": string(t)})

	rows, err := run.binding.Gateway.FetchRows(ctx, t, keys)
	if err != nil {
		return fmt.Errorf("fetch %d rows of %s: %w", len(keys), t, err)
	}
	logger.Debug("Chunk fetched", port.Fields{"requested": len(keys), "received": len(rows)})

	for _, row := range rows {
		l, rej, err := run.binding.Normalizer.Normalize(ctx, run.env, row, t)
		if err != nil {
			return fmt.Errorf("normalize %s %d: %w", t, row.ID, err)
		}
		if rej != nil {
			run.reject(t, row.ID, rej)
			continue
		}
		if rej := run.validator.Validate(l); rej != nil {
			run.reject(t, row.ID, rej)
			continue
		}

		var rec *domain.DestinationRecord
		if r, ok := run.status[l.PropertyType][l.SourceKey]; ok {
			rec = &r
		}
		d := changedetect.Classify(l, rec)
		if d.Class == domain.ClassError {
			run.reject(t, row.ID, domain.Reject(domain.ReasonHashData, "classification"))
			continue
		}
		run.builder.add(l, d, rec)
	}

	return uc.flush(ctx, run)
}

// flush исполняет накопленную пачку: деактивация, вставка, обновление, фото.
// Пачка очищается в любом случае.
func (uc *ReconcileSourceUseCase) flush(ctx context.Context, run *runState) error {
	defer run.builder.batch.Reset()

	return run.builder.batch.Each(func(t domain.PropertyType, tb *domain.TypeBatch) error {
		if len(tb.Deactivate) > 0 {
			if err := uc.destination.Deactivate(ctx, t, run.source.ID, tb.Deactivate); err != nil {
				return fmt.Errorf("deactivate %d objects of %s: %w", len(tb.Deactivate), t, err)
			}
		}
		if err := uc.flushInserts(ctx, t, tb); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInsertFailed, t, err)
		}
		if err := uc.flushUpdates(ctx, t, tb); err != nil {
			if err := uc.updateFailure(run, t, err); err != nil {
				return err
			}
		}
		if err := run.photos.reconcile(ctx, t, tb); err != nil {
			if err := uc.updateFailure(run, t, err); err != nil {
				return err
			}
		}
		return nil
	})
}

func (uc *ReconcileSourceUseCase) flushInserts(ctx context.Context, t domain.PropertyType, tb *domain.TypeBatch) error {
	if len(tb.InsertData) == 0 {
		return nil
	}
	firstID, err := uc.destination.Insert(ctx, t, tb.InsertData)
	if err != nil {
		return err
	}
	for i := range tb.InsertHashes {
		tb.InsertHashes[i].ObjectID = firstID + int64(i)
	}
	for i := range tb.InsertSubtypes {
		tb.InsertSubtypes[i].ObjectID += firstID
	}

	if err := uc.destination.UpsertHash(ctx, t, tb.InsertHashes); err != nil {
		return fmt.Errorf("hash rows: %w", err)
	}
	if len(tb.InsertSubtypes) > 0 {
		if err := uc.destination.InsertSubtypes(ctx, t, tb.InsertSubtypes); err != nil {
			return fmt.Errorf("subtypes: %w", err)
		}
	}
	if len(tb.InsertPhotos) > 0 {
		if err := uc.destination.InsertPhotos(ctx, t, tb.InsertPhotos); err != nil {
			return fmt.Errorf("photos: %w", err)
		}
	}
	return nil
}

func (uc *ReconcileSourceUseCase) flushUpdates(ctx context.Context, t domain.PropertyType, tb *domain.TypeBatch) error {
	if len(tb.FullUpdates) > 0 {
		if err := uc.destination.Update(ctx, t, domain.UpdateFull, tb.FullUpdates); err != nil {
			return fmt.Errorf("full update: %w", err)
		}
	}
	if len(tb.DataUpdates) > 0 {
		if err := uc.destination.Update(ctx, t, domain.UpdateData, tb.DataUpdates); err != nil {
			return fmt.Errorf("data update: %w", err)
		}
	}
	if len(tb.UpdateHashes) > 0 {
		if err := uc.destination.UpsertHash(ctx, t, tb.UpdateHashes); err != nil {
			return fmt.Errorf("hash rows: %w", err)
		}
	}
	return nil
}

// updateFailure возвращает ошибку, если сбои обновления фатальны, иначе логирует и считает сбой.
func (uc *ReconcileSourceUseCase) updateFailure(run *runState, t domain.PropertyType, err error) error {
	if uc.cfg.UpdateFailureFatal {
		return fmt.Errorf("%w: %s: %w", domain.ErrUpdateFailed, t, err)
	}
	run.stats.UpdateFailed()
	run.logger.Error("Update failed, continuing", err, port.Fields{"property_type": string(t)})
	return nil
}

// reject учитывает отброшенную строку: причина валидации и исключение объекта.
func (r *runState) reject(t domain.PropertyType, key int64, rej *domain.Rejection) {
	if !rej.Exclusion {
		r.stats.Emit(domain.Event{Name: domain.EventValidate, Reason: rej.Reason, PropertyType: t, SourceKey: key, Value: rej.Detail})
	}
	r.stats.Emit(domain.Event{Name: domain.EventExcludeObj, Reason: rej.Reason, PropertyType: t, SourceKey: key, Value: rej.Detail})
}
