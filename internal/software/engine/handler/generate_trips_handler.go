package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"school-bus/internal/software/engine/service"

	"github.com/jackc/pgx/v5/pgconn"
)

// --- Handler: POST /api/v1/trips/generate?date=YYYY-MM-DD ---

func (handler *EngineHTTPHandler) handleGenerateTrips(w http.ResponseWriter, r *http.Request) {
	// generate a context with request ID
	ctx := handler.withReqID(r.Context(), r)

	// default to today when no date is given
	date := time.Now().UTC()
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			handler.httpError(ctx, w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
			return
		}
		date = parsed
	}

	// bound service call; the batch touches every active schedule
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	report, err := handler.svc.GenerateDailyTrips(ctxWithTimeout, date)
	if err != nil {
		if errors.Is(err, service.ErrGenerationLocked) {
			handler.httpError(ctxWithTimeout, w, http.StatusConflict, err.Error(), err)
			return
		}

		// distinguish DB failures from validation errors
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "database error", err)
			return
		}
		handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, err.Error(), err)
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusOK, report)
}
