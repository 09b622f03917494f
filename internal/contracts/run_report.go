package contracts

import (
	"encoding/json"
	"fmt"
	"time"

	"reconciliation-service/internal/core/domain"
)

const (
	RunReportEventType    = "RunReportEvent"
	RunReportEventVersion = "1.0.0"
)

type RunReport struct {
	RunID        string         `json:"run_id"`
	TaskID       string         `json:"task_id,omitempty"`
	Source       string         `json:"source"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	DurationMs   int64          `json:"duration_ms"`
	Objects      ObjectCounts   `json:"objects"`
	Images       ImageCounts    `json:"images"`
	UnknownIndex int            `json:"unknown_index"`
	Validation   map[string]int `json:"validation"`
}

type ObjectCounts struct {
	Total          int `json:"total"`
	Insert         int `json:"insert"`
	NotUpdate      int `json:"not_update"`
	FullUpdate     int `json:"full_update"`
	DataUpdate     int `json:"data_update"`
	Deleted        int `json:"deleted"`
	Excluded       int `json:"excluded"`
	UpdateFailures int `json:"update_failures,omitempty"`
}

type ImageCounts struct {
	Insert  int `json:"insert"`
	Delete  int `json:"delete"`
	Exclude int `json:"exclude"`
}

func NewRunReport(s domain.RunSummary) RunReport {
	validation := make(map[string]int, len(s.Validation))
	for reason, n := range s.Validation {
		validation[reason] = n
	}
	return RunReport{
		RunID:      s.RunID,
		TaskID:     s.TaskID,
		Source:     s.Source,
		StartedAt:  s.StartedAt.UTC(),
		FinishedAt: s.FinishedAt.UTC(),
		DurationMs: s.FinishedAt.Sub(s.StartedAt).Milliseconds(),
		Objects: ObjectCounts{
			Total:          s.Total(),
			Insert:         s.Insert,
			NotUpdate:      s.NotUpdate,
			FullUpdate:     s.FullUpdate,
			DataUpdate:     s.DataUpdate,
			Deleted:        s.Deleted,
			Excluded:       s.Excluded,
			UpdateFailures: s.UpdateFailures,
		},
		Images: ImageCounts{
			Insert:  s.InsertImg,
			Delete:  s.DeleteImg,
			Exclude: s.ExcludeImg,
		},
		UnknownIndex: s.UnknownIndex,
		Validation:   validation,
	}
}

// MarshalRunReport сериализует отчет и проверяет его по схеме.
func MarshalRunReport(s domain.RunSummary) ([]byte, error) {
	body, err := json.Marshal(NewRunReport(s))
	if err != nil {
		return nil, fmt.Errorf("marshal run report: %w", err)
	}
	if err := ValidateEvent(RunReportEventType, RunReportEventVersion, body); err != nil {
		return nil, err
	}
	return body, nil
}
