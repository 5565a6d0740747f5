package models

// ChatRequest is the payload the chat widget posts to /api/chat.
type ChatRequest struct {
	Message          string `json:"message"`
	SelectedProvider string `json:"selectedProvider"`
	SubModel         string `json:"subModel"`
	UseMock          bool   `json:"useMock"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the single error envelope for every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

type CatalogProvider struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Models []string `json:"models"`
}

type CatalogResponse struct {
	Providers []CatalogProvider `json:"providers"`
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Providers map[string]bool `json:"providers"`
}
