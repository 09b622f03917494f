package rest

import (
	"time"

	"reconciliation-service/internal/contracts"
	"reconciliation-service/internal/core/domain"
)

// RunRecordResponse - запись журнала прогонов; Report есть только у завершенных прогонов.
type RunRecordResponse struct {
	RunID      string               `json:"run_id"`
	TaskID     string               `json:"task_id,omitempty"`
	Source     string               `json:"source"`
	Status     string               `json:"status"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Error      string               `json:"error,omitempty"`
	Report     *contracts.RunReport `json:"report,omitempty"`
}

type RunAbortedResponse struct {
	Source string `json:"source"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func toRunRecordResponse(rec domain.RunRecord) RunRecordResponse {
	resp := RunRecordResponse{
		RunID:      rec.RunID,
		TaskID:     rec.TaskID,
		Source:     rec.Source,
		Status:     rec.Status,
		StartedAt:  rec.StartedAt.UTC(),
		FinishedAt: rec.FinishedAt.UTC(),
		Error:      rec.Error,
	}
	if rec.Summary != nil {
		report := contracts.NewRunReport(*rec.Summary)
		resp.Report = &report
	}
	return resp
}
