package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"school-bus/internal/domain/school"
	"school-bus/internal/software/engine/service"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- Handler: POST /api/v1/schools/{school_id}/routes/generate ---

func (handler *EngineHTTPHandler) handleGenerateRoutes(w http.ResponseWriter, r *http.Request) {
	// generate a context with request ID
	ctx := handler.withReqID(r.Context(), r)

	// fetch and check the school id
	schoolID := strings.TrimSpace(mux.Vars(r)["school_id"])
	if schoolID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "school_id is required", errors.New("missing school_id"))
		return
	}

	// bound service call; clustering a large school can take a while
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	summary, err := handler.svc.GenerateRoutes(ctxWithTimeout, schoolID)
	if err != nil {
		switch {
		case errors.Is(err, school.ErrSchoolNotFound):
			handler.httpError(ctxWithTimeout, w, http.StatusNotFound, err.Error(), err)
		case errors.Is(err, service.ErrNoEligibleChildren), errors.Is(err, service.ErrNoBusesAvailable):
			handler.httpError(ctxWithTimeout, w, http.StatusBadRequest, err.Error(), err)
		default:
			// distinguish DB failures from validation errors
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, "database error", err)
				return
			}
			handler.httpError(ctxWithTimeout, w, http.StatusInternalServerError, err.Error(), err)
		}
		return
	}

	handler.jsonResponse(ctxWithTimeout, w, http.StatusCreated, summary)
}
