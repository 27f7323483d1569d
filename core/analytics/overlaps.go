package analytics

import (
	"context"
	"time"

	"github.com/RishabhSinha02/chronologicon/core/store"
)

type OverlapEvent struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type OverlapPair struct {
	EventA OverlapEvent `json:"eventA"`
	EventB OverlapEvent `json:"eventB"`
}

type OverlapReport struct {
	TotalOverlaps int           `json:"totalOverlaps"`
	Overlaps      []OverlapPair `json:"overlaps"`
}

// FindOverlaps reports every pair of in-window events whose intervals
// overlap. The test is open-interval: events that merely touch at an
// endpoint do not overlap. The scan is quadratic in the candidate set, which
// the window filter keeps small.
func (s *Service) FindOverlaps(ctx context.Context, window Window) (*OverlapReport, error) {
	events, err := s.events.Search(ctx, window.filter())
	if err != nil {
		return nil, err
	}
	report := &OverlapReport{Overlaps: []OverlapPair{}}
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			a, b := events[i], events[j]
			if a.StartDate.Before(b.EndDate) && a.EndDate.After(b.StartDate) {
				report.Overlaps = append(report.Overlaps, OverlapPair{
					EventA: overlapEvent(a),
					EventB: overlapEvent(b),
				})
			}
		}
	}
	report.TotalOverlaps = len(report.Overlaps)
	return report, nil
}

func overlapEvent(ev store.HistoricalEvent) OverlapEvent {
	return OverlapEvent{ID: ev.EventID, Name: ev.EventName, Start: ev.StartDate, End: ev.EndDate}
}
