package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/RishabhSinha02/chronologicon/core/store"
	"github.com/RishabhSinha02/chronologicon/core/utils"
)

const (
	fieldDelimiter  = "|"
	requiredFields  = 7
	parentNullToken = "NULL"
)

// Service runs ingestion jobs. Each submission gets its own goroutine and its
// own job record; jobs do not coordinate with each other and cannot be
// cancelled once started.
type Service struct {
	events   store.EventsStore
	registry *Registry
	logger   *utils.Logger
}

func NewService(events store.EventsStore, registry *Registry, logger *utils.Logger) *Service {
	return &Service{events: events, registry: registry, logger: logger}
}

// Submit registers a PROCESSING job for path and returns its id immediately;
// the file is processed in the background. Job ids carry a random UUID so
// concurrent submissions within the same clock tick cannot collide.
func (s *Service) Submit(path string) string {
	id := "job-" + uuid.Must(uuid.NewV4()).String()
	s.registry.Create(id)
	go s.processFile(context.Background(), path, id)
	return id
}

func (s *Service) Job(id string) (*Job, bool) {
	return s.registry.Get(id)
}

func (s *Service) processFile(ctx context.Context, path, jobID string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.registry.fail(jobID, "File read error: "+err.Error())
		s.logger.Errorf("INGEST %s read %s: %v", jobID, path, err)
		return
	}
	lines := splitLines(string(data))
	for i, line := range lines {
		if i == 0 {
			continue // header
		}
		s.processLine(ctx, jobID, i+1, line)
	}
	s.registry.complete(jobID)
	if job, ok := s.registry.Get(jobID); ok {
		s.logger.Printf("INGEST %s completed processed=%d errors=%d", jobID, job.ProcessedLines, job.ErrorLines)
	}
}

func (s *Service) processLine(ctx context.Context, jobID string, lineNo int, line string) {
	parts := strings.Split(line, fieldDelimiter)
	if len(parts) < requiredFields {
		s.registry.markError(jobID, fmt.Sprintf("Line %d: malformed (not enough fields)", lineNo))
		return
	}
	id := strings.TrimSpace(parts[0])
	name := strings.TrimSpace(parts[1])
	startRaw := strings.TrimSpace(parts[2])
	endRaw := strings.TrimSpace(parts[3])
	parentRaw := strings.TrimSpace(parts[4])
	research := strings.TrimSpace(parts[5])
	description := strings.TrimSpace(parts[6])

	start, err := utils.ParseTimestamp(startRaw)
	if err != nil {
		s.registry.markError(jobID, fmt.Sprintf("Line %d: %v", lineNo, err))
		return
	}
	end, err := utils.ParseTimestamp(endRaw)
	if err != nil {
		s.registry.markError(jobID, fmt.Sprintf("Line %d: %v", lineNo, err))
		return
	}

	ev := &store.HistoricalEvent{
		EventID:     id,
		EventName:   name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		// An end before its start is accepted and stored with a negative
		// duration; the feed contract leaves date ordering to the producer.
		DurationMinutes: float64(end.Sub(start).Milliseconds()) / 60000.0,
		Metadata:        store.EventMetadata{ResearchValue: research},
	}
	if parentRaw != parentNullToken {
		ev.ParentEventID = &parentRaw
	}
	if err := s.events.UpsertIfAbsent(ctx, ev); err != nil {
		s.registry.markError(jobID, fmt.Sprintf("Line %d: %v", lineNo, err))
		return
	}
	// Duplicate event ids are absorbed by the store and count as processed.
	s.registry.markProcessed(jobID)
}

func splitLines(data string) []string {
	var lines []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
