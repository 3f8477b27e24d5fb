package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TaskTypeRatesRefresh = "rates:refresh"
	TaskTypeArchiveSweep = "orders:archive"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ArchiveSweepPayload tells the sweep handler how old a settled order must
// be before it is moved to the archive.
type ArchiveSweepPayload struct {
	OlderThan time.Duration `json:"older_than"`
}

// NewRatesRefreshTask creates the warm-refresh task for the exchange rate cache.
func NewRatesRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskTypeRatesRefresh, nil, asynq.Queue(QueueDefault))
}

// NewArchiveSweepTask creates the task that archives settled orders older than the retention.
func NewArchiveSweepTask(olderThan time.Duration) (*asynq.Task, error) {
	payload, err := json.Marshal(ArchiveSweepPayload{OlderThan: olderThan})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskTypeArchiveSweep, payload, asynq.Queue(QueueLow)), nil
}
