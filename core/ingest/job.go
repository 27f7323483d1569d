package ingest

import "time"

const (
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

// Job tracks the progress of one ingestion submission. Counters are
// increment-only and the status never moves backwards. Records live for the
// process lifetime; they are not persisted and are lost on restart.
type Job struct {
	ID             string    `json:"jobId"`
	Status         string    `json:"status"`
	ProcessedLines int       `json:"processedLines"`
	ErrorLines     int       `json:"errorLines"`
	Errors         []string  `json:"errors"`
	CreatedAt      time.Time `json:"createdAt"`
}
