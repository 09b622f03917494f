// Package runjournal хранит историю прогонов сверки в локальной sqlite базе.
package runjournal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"reconciliation-service/internal/core/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	task_id     TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL,
	status      TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	summary     TEXT
);
CREATE INDEX IF NOT EXISTS runs_source_finished_idx ON runs (source, finished_at);
`

// время хранится текстом: лексикографический порядок совпадает с хронологическим
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type runRow struct {
	RunID      string         `db:"run_id"`
	TaskID     string         `db:"task_id"`
	Source     string         `db:"source"`
	Status     string         `db:"status"`
	StartedAt  string         `db:"started_at"`
	FinishedAt string         `db:"finished_at"`
	Error      string         `db:"error"`
	Summary    sql.NullString `db:"summary"`
}

type RunJournalAdapter struct {
	db *sqlx.DB
}

// Open открывает (или создает) файл журнала и применяет схему.
func Open(ctx context.Context, path string) (*RunJournalAdapter, error) {
	if path == "" {
		return nil, fmt.Errorf("run journal path is required")
	}
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open run journal %s: %w", path, err)
	}
	// sqlite не любит конкурентных писателей
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate run journal: %w", err)
	}
	return &RunJournalAdapter{db: db}, nil
}

func (a *RunJournalAdapter) Close() error {
	return a.db.Close()
}

func (a *RunJournalAdapter) Record(ctx context.Context, rec domain.RunRecord) error {
	row := runRow{
		RunID:      rec.RunID,
		TaskID:     rec.TaskID,
		Source:     rec.Source,
		Status:     rec.Status,
		StartedAt:  rec.StartedAt.UTC().Format(timeLayout),
		FinishedAt: rec.FinishedAt.UTC().Format(timeLayout),
		Error:      rec.Error,
	}
	if rec.Summary != nil {
		raw, err := json.Marshal(rec.Summary)
		if err != nil {
			return fmt.Errorf("marshal run summary: %w", err)
		}
		row.Summary = sql.NullString{String: string(raw), Valid: true}
	}

	const query = `
		INSERT INTO runs (run_id, task_id, source, status, started_at, finished_at, error, summary)
		VALUES (:run_id, :task_id, :source, :status, :started_at, :finished_at, :error, :summary)
		ON CONFLICT (run_id) DO UPDATE SET
			status = excluded.status,
			finished_at = excluded.finished_at,
			error = excluded.error,
			summary = excluded.summary`
	if _, err := a.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("RunJournalAdapter.Record: %w", err)
	}
	return nil
}

// Last возвращает последний по времени завершения прогон источника; nil, если прогонов не было.
func (a *RunJournalAdapter) Last(ctx context.Context, source string) (*domain.RunRecord, error) {
	const query = `
		SELECT run_id, task_id, source, status, started_at, finished_at, error, summary
		FROM runs
		WHERE source = ?
		ORDER BY finished_at DESC
		LIMIT 1`

	var row runRow
	if err := a.db.GetContext(ctx, &row, query, source); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("RunJournalAdapter.Last: %w", err)
	}
	return row.toDomain()
}

func (r runRow) toDomain() (*domain.RunRecord, error) {
	started, err := time.Parse(timeLayout, r.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("run %s: bad started_at: %w", r.RunID, err)
	}
	finished, err := time.Parse(timeLayout, r.FinishedAt)
	if err != nil {
		return nil, fmt.Errorf("run %s: bad finished_at: %w", r.RunID, err)
	}
	rec := &domain.RunRecord{
		RunID:      r.RunID,
		TaskID:     r.TaskID,
		Source:     r.Source,
		Status:     r.Status,
		StartedAt:  started,
		FinishedAt: finished,
		Error:      r.Error,
	}
	if r.Summary.Valid {
		var s domain.RunSummary
		if err := json.Unmarshal([]byte(r.Summary.String), &s); err != nil {
			return nil, fmt.Errorf("run %s: bad summary: %w", r.RunID, err)
		}
		rec.Summary = &s
	}
	return rec, nil
}
