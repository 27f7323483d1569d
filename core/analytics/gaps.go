package analytics

import (
	"context"

	"github.com/RishabhSinha02/chronologicon/core/store"
)

type GapReport struct {
	LargestGapMinutes float64       `json:"largestGapMinutes"`
	FirstEvent        *EventSummary `json:"firstEvent"`
	SecondEvent       *EventSummary `json:"secondEvent"`
	Message           string        `json:"message,omitempty"`
}

// LargestGap scans in-window events in start-date order and reports the
// largest positive gap between one event's end and the next event's start.
// The maximum starts at zero and only a strictly larger gap replaces it, so
// ties keep the first pair encountered and a sequence with no positive gap
// (adjacent or overlapping throughout) reports zero with no bounding events.
func (s *Service) LargestGap(ctx context.Context, window Window) (*GapReport, error) {
	filter := window.filter()
	filter.SortBy = "start_date"
	filter.SortOrder = "asc"
	events, err := s.events.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(events) < 2 {
		return &GapReport{Message: "Not enough events to calculate gaps"}, nil
	}
	var largest float64
	var first, second *store.HistoricalEvent
	for i := 0; i < len(events)-1; i++ {
		gap := minutesBetween(events[i].EndDate, events[i+1].StartDate)
		if gap > largest {
			largest = gap
			first = &events[i]
			second = &events[i+1]
		}
	}
	report := &GapReport{LargestGapMinutes: largest}
	if first != nil && second != nil {
		fe := summarize(*first)
		se := summarize(*second)
		report.FirstEvent = &fe
		report.SecondEvent = &se
	}
	return report, nil
}
