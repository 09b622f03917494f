package runjournal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconciliation-service/internal/core/domain"
)

func openTemp(t *testing.T) *RunJournalAdapter {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func record(source, status string, finished time.Time) domain.RunRecord {
	return domain.RunRecord{
		RunID:      gofakeit.UUID(),
		Source:     source,
		Status:     status,
		StartedAt:  finished.Add(-time.Minute),
		FinishedAt: finished,
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestLast_Empty(t *testing.T) {
	j := openTemp(t)
	rec, err := j.Last(context.Background(), "avito")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRecordAndLast(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)
	base := time.Date(2026, 4, 1, 2, 0, 0, 0, time.UTC)

	older := record("avito", domain.RunStatusCompleted, base)
	older.Summary = &domain.RunSummary{RunID: older.RunID, Source: "avito", Insert: 5, Validation: map[string]int{domain.ReasonPrice: 1}}
	newer := record("avito", domain.RunStatusFailed, base.Add(time.Hour))
	newer.Error = "destination down"
	other := record("cian", domain.RunStatusAborted, base.Add(2*time.Hour))

	for _, r := range []domain.RunRecord{newer, older, other} {
		require.NoError(t, j.Record(ctx, r))
	}

	got, err := j.Last(ctx, "avito")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.RunID, got.RunID)
	assert.Equal(t, "destination down", got.Error)
	assert.Nil(t, got.Summary)
	assert.True(t, got.FinishedAt.Equal(newer.FinishedAt))

	got, err = j.Last(ctx, "cian")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusAborted, got.Status)
}

func TestRecord_SummaryRoundTrip(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	rec := record("cian", domain.RunStatusCompleted, time.Now())
	rec.Summary = &domain.RunSummary{
		RunID:      rec.RunID,
		Source:     "cian",
		Insert:     3,
		DataUpdate: 2,
		Deleted:    1,
		Validation: map[string]int{domain.ReasonFloor: 4},
	}
	require.NoError(t, j.Record(ctx, rec))

	got, err := j.Last(ctx, "cian")
	require.NoError(t, err)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 5, got.Summary.Total())
	assert.Equal(t, 4, got.Summary.Validation[domain.ReasonFloor])
}

func TestRecord_SameRunOverwrites(t *testing.T) {
	ctx := context.Background()
	j := openTemp(t)

	rec := record("avito", domain.RunStatusFailed, time.Now())
	require.NoError(t, j.Record(ctx, rec))
	rec.Status = domain.RunStatusCompleted
	require.NoError(t, j.Record(ctx, rec))

	got, err := j.Last(ctx, "avito")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, got.Status)
}
