package api

import (
	"encoding/json"
	"net/http"

	"github.com/mkotas/flashdeck/internal/errors"
	"github.com/mkotas/flashdeck/internal/logger"
)

// handleError centralizes error handling for HTTP responses. Every error
// leaves as a JSON envelope {"error": {"code", "message"}}.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else {
		log.Warn("client error: %v", appErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
