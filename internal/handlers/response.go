package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"sitechat-backend/internal/models"
	"sitechat-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string) models.ErrorResponse {
	return models.ErrorResponse{Error: message}
}

// handleProviderError maps adapter failures to a generic client message.
// Upstream details were already logged by the chat service.
func handleProviderError(w http.ResponseWriter, kind services.ProviderKind, err error) {
	var cfgErr *services.ConfigurationError
	if errors.As(err, &cfgErr) {
		writeJSON(w, http.StatusInternalServerError,
			errorResp(fmt.Sprintf("%s service configuration error.", kind.DisplayName())))
		return
	}

	writeJSON(w, http.StatusInternalServerError,
		errorResp(fmt.Sprintf("An error occurred while processing your request with %s.", kind.DisplayName())))
}
