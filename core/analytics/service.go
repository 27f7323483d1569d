package analytics

import (
	"errors"
	"time"

	"github.com/RishabhSinha02/chronologicon/core/store"
)

var (
	ErrNotFound = errors.New("event not found")
	ErrNoPath   = errors.New("no path found")
	ErrCycle    = errors.New("parent cycle detected")
)

// Service answers read-only structural and temporal queries over the event
// forest. All methods are synchronous and issue one store round-trip per
// node or event in scope.
type Service struct {
	events store.EventsStore
}

func NewService(events store.EventsStore) *Service {
	return &Service{events: events}
}

// Window optionally narrows an analytics query to events starting after
// StartAfter and ending before EndBefore.
type Window struct {
	StartAfter *time.Time
	EndBefore  *time.Time
}

func (w Window) filter() store.EventFilter {
	return store.EventFilter{StartAfter: w.StartAfter, EndBefore: w.EndBefore}
}

// EventSummary is the interval view of an event used in overlap and gap
// reports.
type EventSummary struct {
	EventID   string    `json:"event_id"`
	EventName string    `json:"event_name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func summarize(ev store.HistoricalEvent) EventSummary {
	return EventSummary{
		EventID:   ev.EventID,
		EventName: ev.EventName,
		StartDate: ev.StartDate,
		EndDate:   ev.EndDate,
	}
}

func minutesBetween(from, to time.Time) float64 {
	return float64(to.Sub(from).Milliseconds()) / 60000.0
}
