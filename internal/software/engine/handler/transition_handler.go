package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"school-bus/internal/domain/trip"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- Request DTO (HTTP boundary) ---

type transitionTripRequest struct {
	Status string `json:"status"`
}

// --- Handler: PATCH /api/v1/trips/{trip_id}/status ---

func (handler *EngineHTTPHandler) handleTransitionTrip(w http.ResponseWriter, r *http.Request) {
	// generate a context with request ID
	ctx := handler.withReqID(r.Context(), r)

	// check the content type
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		handler.httpError(ctx, w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
		return
	}

	// limit the body size
	r.Body = http.MaxBytesReader(w, r.Body, 256<<10) // 256 KiB
	defer r.Body.Close()

	// fetch and check the trip id
	tripID := strings.TrimSpace(mux.Vars(r)["trip_id"])
	if tripID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "trip_id is required", errors.New("missing trip_id"))
		return
	}
	ctx = handler.logger.WithTripID(ctx, tripID)

	// decode strictly
	var req transitionTripRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			handler.httpError(ctx, w, http.StatusRequestEntityTooLarge, "request body too large", err)
			return
		}
		handler.httpError(ctx, w, http.StatusBadRequest, "invalid JSON: "+err.Error(), err)
		return
	}

	next, err := trip.ParseStatus(req.Status)
	if err != nil {
		handler.httpError(ctx, w, http.StatusBadRequest, err.Error(), err)
		return
	}

	// bound service call
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	updated, err := handler.svc.TransitionTrip(ctxWithTimeout, tripID, next)
	if err != nil {
		switch {
		case errors.Is(err, trip.ErrTripNotFound):
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, err.Error(), err)
		case errors.Is(err, trip.ErrInvalidTransition):
			handler.httpError(ctxWithTimeout, w, http.StatusConflict, err.Error(), err)
		default:
			// distinguish DB failures from validation errors
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "database error", err)
				return
			}
			handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, err.Error(), err)
		}
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, transitionTripResponse{
		TripID:    updated.ID,
		Status:    updated.Status.String(),
		StartTime: updated.StartTime,
		EndTime:   updated.EndTime,
		UpdatedAt: updated.UpdatedAt,
	})
}

// --- Response DTO (HTTP boundary) ---

type transitionTripResponse struct {
	TripID    string     `json:"trip_id"`
	Status    string     `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}
