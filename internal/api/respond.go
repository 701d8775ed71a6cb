package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/studypilot/studypilot/internal/core"
)

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps a service error to an HTTP status. Clients get a generic
// message per category; the full error goes to the log only.
func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, core.ErrValidation):
		status, message = http.StatusBadRequest, "invalid request"
	case errors.Is(err, core.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, core.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, core.ErrAlreadyExists):
		status, message = http.StatusConflict, "already exists"
	case errors.Is(err, core.ErrUpstreamFetch):
		status, message = http.StatusBadGateway, "failed to fetch source material"
	case errors.Is(err, core.ErrGenerationTimeout):
		status, message = http.StatusGatewayTimeout, "generation timed out"
	case errors.Is(err, core.ErrGenerationParse):
		status, message = http.StatusBadGateway, "generation produced an unusable result"
	case errors.Is(err, core.ErrPartialPersistence):
		status, message = http.StatusInternalServerError, "artifact was only partially saved"
	}

	if status >= 500 {
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	} else {
		h.log.Debug("request rejected",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	h.writeJSON(w, status, map[string]string{"error": message})
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(core.ErrValidation, err)
	}
	return nil
}
