package handler

import "net/http"

// --- Handler: GET /health ---

func (handler *EngineHTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)
	handler.jsonResponse(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
