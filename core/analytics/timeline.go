package analytics

import (
	"context"
	"fmt"
	"time"
)

// TimelineNode is one event with its recursively assembled children. The
// order of children is whatever the store returns.
type TimelineNode struct {
	EventID         string          `json:"event_id"`
	EventName       string          `json:"event_name"`
	Description     string          `json:"description"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	DurationMinutes float64         `json:"duration_minutes"`
	ParentEventID   *string         `json:"parent_event_id"`
	Children        []*TimelineNode `json:"children"`
}

// BuildTimeline assembles the subtree rooted at rootID. It returns
// ErrNotFound when the root does not exist and ErrCycle when a parent chain
// revisits an ancestor, which a well-formed forest never does.
func (s *Service) BuildTimeline(ctx context.Context, rootID string) (*TimelineNode, error) {
	node, err := s.buildSubtree(ctx, rootID, map[string]struct{}{})
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, ErrNotFound
	}
	return node, nil
}

func (s *Service) buildSubtree(ctx context.Context, id string, ancestors map[string]struct{}) (*TimelineNode, error) {
	if _, ok := ancestors[id]; ok {
		return nil, fmt.Errorf("%w: %s is its own ancestor", ErrCycle, id)
	}
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, nil
	}
	ancestors[id] = struct{}{}
	defer delete(ancestors, id)

	children, err := s.events.GetChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	node := &TimelineNode{
		EventID:         ev.EventID,
		EventName:       ev.EventName,
		Description:     ev.Description,
		StartDate:       ev.StartDate,
		EndDate:         ev.EndDate,
		DurationMinutes: ev.DurationMinutes,
		ParentEventID:   ev.ParentEventID,
		Children:        []*TimelineNode{},
	}
	for i := range children {
		child, err := s.buildSubtree(ctx, children[i].EventID, ancestors)
		if err != nil {
			return nil, err
		}
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}
