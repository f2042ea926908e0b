package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"school-bus/internal/general/logger"
	"school-bus/internal/ports"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// EngineHTTPHandler adapts HTTP requests to the EngineService.
type EngineHTTPHandler struct {
	svc    ports.EngineService
	logger *logger.Logger
}

// NewEngineHTTPHandler wires an HTTP handler around the EngineService.
func NewEngineHTTPHandler(svc ports.EngineService, logger *logger.Logger) *EngineHTTPHandler {
	return &EngineHTTPHandler{svc: svc, logger: logger}
}

// Router mounts the engine endpoints and returns the root handler with CORS
// applied.
func (handler *EngineHTTPHandler) Router() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/schools/{school_id}/routes/generate", handler.handleGenerateRoutes).Methods(http.MethodPost)
	api.HandleFunc("/trips/generate", handler.handleGenerateTrips).Methods(http.MethodPost)
	api.HandleFunc("/trips/{trip_id}/status", handler.handleTransitionTrip).Methods(http.MethodPatch)

	r.HandleFunc("/health", handler.handleHealth).Methods(http.MethodGet)

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
	)(r)
}

// ----- general helpers -----

func (handler *EngineHTTPHandler) jsonResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	// encode to buffer first so we can control status on failure
	var buf []byte
	var err error

	if data != nil {
		buf, err = json.Marshal(data)
		if err != nil {
			handler.logger.Error(ctx, "response_encode_failed", "Failed to encode response", err, nil)
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
			return
		}
	} else {
		buf = []byte("{}")
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

// httpError sends a JSON error response with a message.
func (handler *EngineHTTPHandler) httpError(ctx context.Context, w http.ResponseWriter, status int, msg string, err error) {
	action := "request_failed"
	if status >= 500 {
		action = "http_internal_error"
	} else if status == http.StatusBadRequest {
		action = "validation_failed"
	} else if status == http.StatusUnsupportedMediaType {
		action = "unsupported_media_type"
	}
	handler.logger.Error(ctx, action, msg, err, nil)

	type errBody struct {
		Error string `json:"error"`
	}
	handler.jsonResponse(ctx, w, status, errBody{Error: msg})
}

// withReqID extracts or generates a request ID and adds it to the context.
func (handler *EngineHTTPHandler) withReqID(ctx context.Context, r *http.Request) context.Context {
	reqID := r.Header.Get("X-Request-ID")
	if strings.TrimSpace(reqID) == "" {
		reqID = randID()
	}
	return handler.logger.WithRequestID(ctx, reqID)
}

// randID generates a random 24-char hex string suitable for request IDs.
func randID() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
