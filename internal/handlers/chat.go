package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"sitechat-backend/internal/middleware"
	"sitechat-backend/internal/models"
	"sitechat-backend/internal/services"
)

const (
	msgInvalidBody      = "Invalid request body"
	msgMessageRequired  = "Message is required"
	msgProviderRequired = "Selected provider is required"
	msgModelRequired    = "Specific model selection is required"
	msgInvalidProvider  = "Invalid AI provider selected."
	msgModelNotInList   = "Selected model is not available for this provider."
)

type chatService interface {
	Reply(ctx context.Context, kind services.ProviderKind, message, model string) (string, error)
	Simulate(ctx context.Context, provider, message string) (string, error)
	ModelAllowed(kind services.ProviderKind, model string) bool
}

type rejectionRecorder interface {
	IncRejected(reason string)
}

type ChatHandler struct {
	chat           chatService
	rejections     rejectionRecorder
	logger         *slog.Logger
	enforceCatalog bool
}

func NewChatHandler(chat chatService, rejections rejectionRecorder, logger *slog.Logger, enforceCatalog bool) *ChatHandler {
	return &ChatHandler{
		chat:           chat,
		rejections:     rejections,
		logger:         logger,
		enforceCatalog: enforceCatalog,
	}
}

// Chat handles POST /api/chat. Checks run in a fixed order and the first
// failure wins.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	// An empty body is an empty request, not a malformed one.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.reject(w, "invalid_body", msgInvalidBody)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		h.reject(w, "missing_message", msgMessageRequired)
		return
	}

	if req.UseMock {
		reply, err := h.chat.Simulate(r.Context(), req.SelectedProvider, req.Message)
		if err != nil {
			// Client went away during the simulated delay.
			h.logger.Debug("mock reply abandoned", "request_id", middleware.GetRequestID(r.Context()), "error", err)
			return
		}
		writeJSON(w, http.StatusOK, models.ChatResponse{Response: reply})
		return
	}

	if strings.TrimSpace(req.SelectedProvider) == "" {
		h.reject(w, "missing_provider", msgProviderRequired)
		return
	}

	if strings.TrimSpace(req.SubModel) == "" {
		h.reject(w, "missing_model", msgModelRequired)
		return
	}

	kind, ok := services.ParseProviderKind(req.SelectedProvider)
	if !ok {
		h.reject(w, "unknown_provider", msgInvalidProvider)
		return
	}

	if h.enforceCatalog && !h.chat.ModelAllowed(kind, req.SubModel) {
		h.reject(w, "model_not_in_catalog", msgModelNotInList)
		return
	}

	reply, err := h.chat.Reply(r.Context(), kind, req.Message, req.SubModel)
	if err != nil {
		handleProviderError(w, kind, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Response: reply})
}

func (h *ChatHandler) reject(w http.ResponseWriter, reason, message string) {
	h.rejections.IncRejected(reason)
	writeJSON(w, http.StatusBadRequest, errorResp(message))
}
