package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/RishabhSinha02/chronologicon/core/analytics"
	"github.com/RishabhSinha02/chronologicon/core/store"
	"github.com/RishabhSinha02/chronologicon/core/utils"
)

type AnalyticsHandler struct {
	events    store.EventsStore
	analytics *analytics.Service
	logger    *utils.Logger
}

func NewAnalyticsHandler(events store.EventsStore, svc *analytics.Service, logger *utils.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{events: events, analytics: svc, logger: logger}
}

func (h *AnalyticsHandler) serverError(w http.ResponseWriter, op string, err error) {
	h.logger.Errorf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "Something went wrong")
}

func (h *AnalyticsHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	rootID := chi.URLParam(r, "rootEventId")
	node, err := h.analytics.BuildTimeline(r.Context(), rootID)
	if err != nil {
		if errors.Is(err, analytics.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Event not found")
			return
		}
		h.serverError(w, "timeline", err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

type searchResponse struct {
	TotalEvents int           `json:"totalEvents"`
	Page        int           `json:"page"`
	Limit       int           `json:"limit"`
	Events      []searchEvent `json:"events"`
}

type searchEvent struct {
	EventID   string    `json:"event_id"`
	EventName string    `json:"event_name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

func (h *AnalyticsHandler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseIntDefault(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := parseIntDefault(q.Get("limit"), 10)
	if limit < 1 {
		limit = 10
	}

	filter := store.EventFilter{
		Name:      q.Get("name"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}
	startAfter, endBefore, err := dateBoundsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.StartAfter = startAfter
	filter.EndBefore = endBefore

	total, err := h.events.CountMatching(r.Context(), filter)
	if err != nil {
		h.serverError(w, "search count", err)
		return
	}
	events, err := h.events.Search(r.Context(), filter)
	if err != nil {
		h.serverError(w, "search", err)
		return
	}

	out := make([]searchEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, searchEvent{
			EventID:   ev.EventID,
			EventName: ev.EventName,
			StartDate: ev.StartDate,
			EndDate:   ev.EndDate,
		})
	}
	writeJSON(w, http.StatusOK, searchResponse{TotalEvents: total, Page: page, Limit: limit, Events: out})
}

// dateBoundsFromQuery reads the optional start_date_after / end_date_before
// filters shared by search and the insights endpoints. An unparseable value is
// rejected rather than ignored; dropping it would silently widen the result
// set.
func dateBoundsFromQuery(r *http.Request) (*time.Time, *time.Time, error) {
	q := r.URL.Query()
	var startAfter, endBefore *time.Time
	if raw := q.Get("start_date_after"); raw != "" {
		t, err := utils.ParseTimestamp(raw)
		if err != nil {
			return nil, nil, errors.New("invalid start_date_after")
		}
		startAfter = &t
	}
	if raw := q.Get("end_date_before"); raw != "" {
		t, err := utils.ParseTimestamp(raw)
		if err != nil {
			return nil, nil, errors.New("invalid end_date_before")
		}
		endBefore = &t
	}
	return startAfter, endBefore, nil
}

func windowFromQuery(r *http.Request) (analytics.Window, error) {
	startAfter, endBefore, err := dateBoundsFromQuery(r)
	if err != nil {
		return analytics.Window{}, err
	}
	return analytics.Window{StartAfter: startAfter, EndBefore: endBefore}, nil
}

func (h *AnalyticsHandler) OverlappingEvents(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.analytics.FindOverlaps(r.Context(), window)
	if err != nil {
		h.serverError(w, "overlapping events", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) TemporalGaps(w http.ResponseWriter, r *http.Request) {
	window, err := windowFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.analytics.LargestGap(r.Context(), window)
	if err != nil {
		h.serverError(w, "temporal gaps", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *AnalyticsHandler) EventInfluence(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source, target := q.Get("source"), q.Get("target")
	if source == "" || target == "" {
		writeError(w, http.StatusBadRequest, "source and target query params are required")
		return
	}
	result, err := h.analytics.InfluencePath(r.Context(), source, target)
	if err != nil {
		switch {
		case errors.Is(err, analytics.ErrNotFound):
			writeError(w, http.StatusNotFound, "Source event not found")
		case errors.Is(err, analytics.ErrNoPath):
			writeMessage(w, http.StatusNotFound, "No path found between source and target")
		default:
			h.serverError(w, "event influence", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}
