package handlers

import (
	"net/http"

	"sitechat-backend/internal/models"
)

type providerStatus interface {
	ProviderStatus() map[string]bool
}

type HealthHandler struct {
	status providerStatus
}

func NewHealthHandler(status providerStatus) *HealthHandler {
	return &HealthHandler{status: status}
}

// Health reports liveness and which providers have credentials. Key values
// are never included.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Providers: h.status.ProviderStatus(),
	})
}
