package domain

import "time"

// RunRequest - запрос на прогон сверки.
type RunRequest struct {
	TaskID    string
	Source    string
	BatchSize int
}

// RunSummary - итог завершенного прогона.
type RunSummary struct {
	RunID      string
	TaskID     string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time

	Insert     int
	NotUpdate  int
	FullUpdate int
	DataUpdate int
	Deleted    int
	Excluded   int

	InsertImg  int
	DeleteImg  int
	ExcludeImg int

	UnknownIndex int
	Validation   map[string]int
	// UpdateFailures считается, только если сбои обновления не фатальны.
	UpdateFailures int
}

// Total - все объявления, дошедшие до классификации.
func (s RunSummary) Total() int {
	return s.Insert + s.NotUpdate + s.FullUpdate + s.DataUpdate
}

// RunRecord - запись журнала прогонов.
type RunRecord struct {
	RunID      string
	TaskID     string
	Source     string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
	Summary    *RunSummary
}

const (
	RunStatusCompleted = "completed"
	RunStatusAborted   = "aborted"
	RunStatusFailed    = "failed"
)
