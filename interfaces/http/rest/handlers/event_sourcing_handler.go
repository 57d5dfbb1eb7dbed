// Package handlers holds the HTTP request handlers. They decode and
// validate the request, dispatch through the buses, and render the shared
// response envelope; no business rules live here.
package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventbase/application/queries"
	querybus "eventbase/application/queries/bus"
	"eventbase/domain/events"
	"eventbase/pkg/common"
	apperrors "eventbase/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EventSourcingHandler serves the replay and history endpoints
type EventSourcingHandler struct {
	queryBus *querybus.QueryBus
	errors   *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewEventSourcingHandler creates a new event sourcing handler
func NewEventSourcingHandler(queryBus *querybus.QueryBus, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *EventSourcingHandler {
	return &EventSourcingHandler{
		queryBus: queryBus,
		errors:   errorHandler,
		logger:   logger,
	}
}

// ReplayEvents handles GET /events/{entityID}/replay
func (h *EventSourcingHandler) ReplayEvents(w http.ResponseWriter, r *http.Request) {
	query := queries.ReplayEventsQuery{
		EntityID:   chi.URLParam(r, "entityID"),
		EventTypes: parseEventTypes(r.URL.Query().Get("eventTypes")),
	}

	var err error
	if query.FromDate, err = parseOptionalTime(r.URL.Query().Get("fromDate")); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("fromDate must be RFC3339"))
		return
	}
	if query.ToDate, err = parseOptionalTime(r.URL.Query().Get("toDate")); err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("toDate must be RFC3339"))
		return
	}
	if raw := r.URL.Query().Get("batchSize"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			h.errors.Handle(w, r, apperrors.NewValidationError("batchSize must be an integer"))
			return
		}
		query.BatchSize = size
	}

	h.ask(w, r, query)
}

// StateAtTime handles GET /events/{entityID}/state-at/{timestamp}
func (h *EventSourcingHandler) StateAtTime(w http.ResponseWriter, r *http.Request) {
	timestamp, err := time.Parse(time.RFC3339, chi.URLParam(r, "timestamp"))
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("timestamp must be RFC3339"))
		return
	}

	h.ask(w, r, queries.StateAtTimeQuery{
		EntityID:  chi.URLParam(r, "entityID"),
		Timestamp: timestamp,
	})
}

// StateAfterEvents handles GET /events/{entityID}/state-after/{count}
func (h *EventSourcingHandler) StateAfterEvents(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(chi.URLParam(r, "count"))
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("count must be an integer"))
		return
	}

	h.ask(w, r, queries.StateAfterEventsQuery{
		EntityID:   chi.URLParam(r, "entityID"),
		EventCount: count,
	})
}

// EventTimeline handles GET /events/{entityID}/timeline
func (h *EventSourcingHandler) EventTimeline(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.EventTimelineQuery{
		EntityID: chi.URLParam(r, "entityID"),
	})
}

// EventStatistics handles GET /events/{entityID}/statistics
func (h *EventSourcingHandler) EventStatistics(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.EventStatisticsQuery{
		EntityID: chi.URLParam(r, "entityID"),
	})
}

// EntityEvents handles GET /events/{entityID}/events
func (h *EventSourcingHandler) EntityEvents(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.EntityEventsQuery{
		EntityID:   chi.URLParam(r, "entityID"),
		EventTypes: parseEventTypes(r.URL.Query().Get("eventTypes")),
	})
}

// CompareStates handles GET /events/{entityID}/compare?fromDate=&toDate=
func (h *EventSourcingHandler) CompareStates(w http.ResponseWriter, r *http.Request) {
	fromDate, err := time.Parse(time.RFC3339, r.URL.Query().Get("fromDate"))
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("fromDate must be RFC3339"))
		return
	}
	toDate, err := time.Parse(time.RFC3339, r.URL.Query().Get("toDate"))
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("toDate must be RFC3339"))
		return
	}

	h.ask(w, r, queries.CompareStatesQuery{
		EntityID: chi.URLParam(r, "entityID"),
		FromDate: fromDate,
		ToDate:   toDate,
	})
}

// StreamBatch handles GET /events/{entityID}/batch/{batchNumber}?batchSize=
func (h *EventSourcingHandler) StreamBatch(w http.ResponseWriter, r *http.Request) {
	batchNumber, err := strconv.Atoi(chi.URLParam(r, "batchNumber"))
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("batchNumber must be an integer"))
		return
	}

	batchSize := queries.DefaultBatchSize
	if raw := r.URL.Query().Get("batchSize"); raw != "" {
		batchSize, err = strconv.Atoi(raw)
		if err != nil {
			h.errors.Handle(w, r, apperrors.NewValidationError("batchSize must be an integer"))
			return
		}
	}

	h.ask(w, r, queries.StreamBatchQuery{
		EntityID:    chi.URLParam(r, "entityID"),
		BatchNumber: batchNumber,
		BatchSize:   batchSize,
	})
}

func (h *EventSourcingHandler) ask(w http.ResponseWriter, r *http.Request, query querybus.Query) {
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// parseEventTypes splits a comma-separated eventTypes parameter
func parseEventTypes(raw string) []events.EventName {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]events.EventName, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, events.EventName(trimmed))
		}
	}
	return names
}

// parseOptionalTime parses an RFC3339 query parameter, absent meaning nil
func parseOptionalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
