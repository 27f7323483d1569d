package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// HistoricalEvent is one record of the event forest. ParentEventID may point
// at a record that was never ingested; traversals treat such links as having
// no children rather than failing.
type HistoricalEvent struct {
	EventID         string        `json:"event_id"`
	EventName       string        `json:"event_name"`
	Description     string        `json:"description"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	DurationMinutes float64       `json:"duration_minutes"`
	ParentEventID   *string       `json:"parent_event_id"`
	Metadata        EventMetadata `json:"metadata"`
}

// EventMetadata is an inert attribute bag carried through from ingestion.
type EventMetadata struct {
	ResearchValue string `json:"researchValue,omitempty"`
}

type EventFilter struct {
	Name       string
	StartAfter *time.Time
	EndBefore  *time.Time
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

type EventsStore interface {
	// UpsertIfAbsent inserts the event unless its id already exists. A
	// duplicate id is a silent no-op; the first write wins.
	UpsertIfAbsent(ctx context.Context, ev *HistoricalEvent) error
	GetByID(ctx context.Context, id string) (*HistoricalEvent, error)
	GetChildren(ctx context.Context, parentID string) ([]HistoricalEvent, error)
	GetByIDs(ctx context.Context, ids []string) ([]HistoricalEvent, error)
	Search(ctx context.Context, filter EventFilter) ([]HistoricalEvent, error)
	CountMatching(ctx context.Context, filter EventFilter) (int, error)
}

type eventsStore struct {
	db     *sql.DB
	driver string
}

func NewEventsStore(db *sql.DB, driver string) EventsStore {
	return &eventsStore{db: db, driver: driver}
}

const eventColumns = `event_id, event_name, description, start_date, end_date, duration_minutes, parent_event_id, metadata`

func (s *eventsStore) UpsertIfAbsent(ctx context.Context, ev *HistoricalEvent) error {
	_, err := s.db.ExecContext(ctx, rebind(s.driver, `
		INSERT INTO historical_events(event_id, event_name, description, start_date, end_date, duration_minutes, parent_event_id, metadata)
		VALUES(?,?,?,?,?,?,?,?)
		ON CONFLICT (event_id) DO NOTHING`),
		ev.EventID, ev.EventName, ev.Description, ev.StartDate.UTC(), ev.EndDate.UTC(), ev.DurationMinutes, nullableString(ev.ParentEventID), metadataToJSON(ev.Metadata))
	return err
}

func (s *eventsStore) GetByID(ctx context.Context, id string) (*HistoricalEvent, error) {
	row := s.db.QueryRowContext(ctx, rebind(s.driver, `
		SELECT `+eventColumns+` FROM historical_events WHERE event_id=?`), id)
	return s.scanEvent(row)
}

func (s *eventsStore) GetChildren(ctx context.Context, parentID string) ([]HistoricalEvent, error) {
	rows, err := s.db.QueryContext(ctx, rebind(s.driver, `
		SELECT `+eventColumns+` FROM historical_events WHERE parent_event_id=?`), parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectEvents(rows)
}

func (s *eventsStore) GetByIDs(ctx context.Context, ids []string) ([]HistoricalEvent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := s.db.QueryContext(ctx, rebind(s.driver, fmt.Sprintf(`
		SELECT `+eventColumns+` FROM historical_events WHERE event_id IN (%s)`, placeholders)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectEvents(rows)
}

func (s *eventsStore) Search(ctx context.Context, filter EventFilter) ([]HistoricalEvent, error) {
	clauses, args := buildEventClauses(filter)
	query := `SELECT ` + eventColumns + ` FROM historical_events`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += sortClause(filter)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}
	rows, err := s.db.QueryContext(ctx, rebind(s.driver, query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectEvents(rows)
}

func (s *eventsStore) CountMatching(ctx context.Context, filter EventFilter) (int, error) {
	clauses, args := buildEventClauses(filter)
	query := `SELECT COUNT(*) FROM historical_events`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	var count int
	if err := s.db.QueryRowContext(ctx, rebind(s.driver, query), args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func buildEventClauses(filter EventFilter) ([]string, []any) {
	var clauses []string
	var args []any
	if strings.TrimSpace(filter.Name) != "" {
		clauses = append(clauses, "LOWER(event_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(filter.Name))+"%")
	}
	if filter.StartAfter != nil {
		clauses = append(clauses, "start_date > ?")
		args = append(args, filter.StartAfter.UTC())
	}
	if filter.EndBefore != nil {
		clauses = append(clauses, "end_date < ?")
		args = append(args, filter.EndBefore.UTC())
	}
	return clauses, args
}

var allowedSortFields = map[string]string{
	"start_date": "start_date",
	"end_date":   "end_date",
	"event_name": "event_name",
}

// Unknown sort fields silently fall back to start_date ascending.
func sortClause(filter EventFilter) string {
	field, ok := allowedSortFields[filter.SortBy]
	if !ok {
		field = "start_date"
	}
	dir := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		dir = "DESC"
	}
	return " ORDER BY " + field + " " + dir
}

func (s *eventsStore) scanEvent(row *sql.Row) (*HistoricalEvent, error) {
	var ev HistoricalEvent
	var parent sql.NullString
	var metaRaw string
	if err := row.Scan(&ev.EventID, &ev.EventName, &ev.Description, &ev.StartDate, &ev.EndDate, &ev.DurationMinutes, &parent, &metaRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if parent.Valid {
		ev.ParentEventID = &parent.String
	}
	ev.Metadata = parseMetadata(metaRaw)
	return &ev, nil
}

func (s *eventsStore) collectEvents(rows *sql.Rows) ([]HistoricalEvent, error) {
	var res []HistoricalEvent
	for rows.Next() {
		var ev HistoricalEvent
		var parent sql.NullString
		var metaRaw string
		if err := rows.Scan(&ev.EventID, &ev.EventName, &ev.Description, &ev.StartDate, &ev.EndDate, &ev.DurationMinutes, &parent, &metaRaw); err != nil {
			return nil, err
		}
		if parent.Valid {
			ev.ParentEventID = &parent.String
		}
		ev.Metadata = parseMetadata(metaRaw)
		res = append(res, ev)
	}
	return res, rows.Err()
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func metadataToJSON(meta EventMetadata) string {
	b, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func parseMetadata(raw string) EventMetadata {
	if strings.TrimSpace(raw) == "" {
		return EventMetadata{}
	}
	var meta EventMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return EventMetadata{}
	}
	return meta
}
