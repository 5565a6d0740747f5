package handlers

import (
	"net/http"

	"sitechat-backend/internal/models"
	"sitechat-backend/internal/services"
)

type CatalogHandler struct {
	catalog *services.Catalog
}

func NewCatalogHandler(catalog *services.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List handles GET /api/models.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.catalog.Entries()

	resp := models.CatalogResponse{Providers: make([]models.CatalogProvider, 0, len(entries))}
	for _, e := range entries {
		resp.Providers = append(resp.Providers, models.CatalogProvider{
			ID:     e.Kind.ID(),
			Name:   e.Kind.DisplayName(),
			Models: e.Models,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
