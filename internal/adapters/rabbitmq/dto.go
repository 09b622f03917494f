package rabbitmq

import (
	"fmt"

	"github.com/google/uuid"

	"reconciliation-service/internal/constants"
	"reconciliation-service/internal/core/domain"
)

// TaskDTO - задача на прогон сверки из очереди reconcile_tasks.
type TaskDTO struct {
	TaskID    uuid.UUID `json:"task_id"`
	Source    string    `json:"source"`
	BatchSize int       `json:"batch_size,omitempty"`
}

func (t TaskDTO) toRunRequest() (domain.RunRequest, error) {
	if !constants.IsKnownSource(t.Source) {
		return domain.RunRequest{}, fmt.Errorf("%w: %q", domain.ErrUnknownSource, t.Source)
	}
	if t.BatchSize < 0 {
		return domain.RunRequest{}, fmt.Errorf("batch_size must not be negative, got %d", t.BatchSize)
	}
	req := domain.RunRequest{Source: t.Source, BatchSize: t.BatchSize}
	if t.TaskID != uuid.Nil {
		req.TaskID = t.TaskID.String()
	}
	return req, nil
}
