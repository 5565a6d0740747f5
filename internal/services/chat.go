package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sitechat-backend/internal/metrics"
	"sitechat-backend/internal/middleware"
)

// ChatService routes a validated chat request to its provider, or answers it
// with a simulated reply.
type ChatService struct {
	providers   *Providers
	catalog     *Catalog
	metrics     *metrics.Metrics
	logger      *slog.Logger
	mockLatency time.Duration
}

func NewChatService(
	providers *Providers,
	catalog *Catalog,
	m *metrics.Metrics,
	logger *slog.Logger,
	mockLatency time.Duration,
) *ChatService {
	return &ChatService{
		providers:   providers,
		catalog:     catalog,
		metrics:     m,
		logger:      logger,
		mockLatency: mockLatency,
	}
}

// Reply performs one upstream call. Every identical request is a fresh call.
func (s *ChatService) Reply(ctx context.Context, kind ProviderKind, message, model string) (string, error) {
	requestID := middleware.GetRequestID(ctx)
	s.logger.Info("dispatching chat request", "request_id", requestID, "provider", kind.ID(), "model", model)

	start := time.Now()
	text, err := s.providers.For(kind).Generate(ctx, message, model)
	elapsed := time.Since(start)

	if err != nil {
		var cfgErr *ConfigurationError
		var upErr *UpstreamError
		switch {
		case errors.As(err, &cfgErr):
			s.metrics.ObserveProviderCall(kind.ID(), metrics.OutcomeConfigError, elapsed)
			s.logger.Error("provider not configured", "request_id", requestID, "provider", kind.ID())
		case errors.As(err, &upErr):
			s.metrics.ObserveProviderCall(kind.ID(), metrics.OutcomeUpstream, elapsed)
			s.logger.Error("provider call failed",
				"request_id", requestID,
				"provider", kind.ID(),
				"model", model,
				"status", upErr.StatusCode,
				"body", upErr.Body,
				"error", err,
				"elapsed", elapsed)
		default:
			s.metrics.ObserveProviderCall(kind.ID(), metrics.OutcomeUpstream, elapsed)
			s.logger.Error("provider call failed", "request_id", requestID, "provider", kind.ID(), "model", model, "error", err)
		}
		return "", err
	}

	s.metrics.ObserveProviderCall(kind.ID(), metrics.OutcomeSuccess, elapsed)
	s.logger.Debug("provider replied", "provider", kind.ID(), "model", model, "elapsed", elapsed)
	return text, nil
}

// Simulate waits the configured latency and returns a canned reply. provider
// is echoed verbatim and may be empty. Returns ctx.Err() if the caller gives
// up first.
func (s *ChatService) Simulate(ctx context.Context, provider, message string) (string, error) {
	timer := time.NewTimer(s.mockLatency)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	s.metrics.IncMockReply()
	return fmt.Sprintf("Simulated %s response to: \"%s\"", provider, message), nil
}

// ModelAllowed reports whether model is in kind's catalog.
func (s *ChatService) ModelAllowed(kind ProviderKind, model string) bool {
	return s.catalog.Contains(kind, model)
}

// ProviderStatus reports which providers have credentials configured.
func (s *ChatService) ProviderStatus() map[string]bool {
	status := make(map[string]bool, len(AllKinds))
	for _, kind := range AllKinds {
		status[kind.ID()] = s.providers.For(kind).Configured()
	}
	return status
}
