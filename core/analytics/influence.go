package analytics

import (
	"context"

	"github.com/RishabhSinha02/chronologicon/core/store"
)

type PathEvent struct {
	EventID         string  `json:"event_id"`
	EventName       string  `json:"event_name"`
	DurationMinutes float64 `json:"duration_minutes"`
}

type InfluenceResult struct {
	TotalDurationMinutes float64     `json:"totalDurationMinutes"`
	Path                 []PathEvent `json:"path"`
}

// InfluencePath finds the hop-shortest downward path from source to target by
// breadth-first search along parent→child links only; a target that is an
// ancestor or sibling of the source is unreachable by design and reports
// ErrNoPath. The accumulated duration includes the source's own duration and
// each traversed child's, so it is a property of the path found, not a
// minimised quantity.
func (s *Service) InfluencePath(ctx context.Context, source, target string) (*InfluenceResult, error) {
	src, err := s.events.GetByID(ctx, source)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrNotFound
	}

	type queueItem struct {
		id    string
		path  []string
		total float64
	}
	queue := []queueItem{{id: source, path: []string{source}, total: src.DurationMinutes}}
	visited := map[string]struct{}{source: {}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.id == target {
			return s.describePath(ctx, current.path, current.total)
		}
		children, err := s.events.GetChildren(ctx, current.id)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if _, ok := visited[child.EventID]; ok {
				continue
			}
			visited[child.EventID] = struct{}{}
			path := append(append([]string(nil), current.path...), child.EventID)
			queue = append(queue, queueItem{
				id:    child.EventID,
				path:  path,
				total: current.total + child.DurationMinutes,
			})
		}
	}
	return nil, ErrNoPath
}

func (s *Service) describePath(ctx context.Context, ids []string, total float64) (*InfluenceResult, error) {
	events, err := s.events.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]store.HistoricalEvent, len(events))
	for _, ev := range events {
		byID[ev.EventID] = ev
	}
	path := make([]PathEvent, 0, len(ids))
	for _, id := range ids {
		ev := byID[id]
		path = append(path, PathEvent{EventID: ev.EventID, EventName: ev.EventName, DurationMinutes: ev.DurationMinutes})
	}
	return &InfluenceResult{TotalDurationMinutes: total, Path: path}, nil
}
