package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type generateContentFunc func(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error)

// GeminiProvider sends single-turn prompts through the genai client.
type GeminiProvider struct {
	client   *genai.Client
	generate generateContentFunc
}

// NewGeminiProvider creates the genai client when apiKey is set. Without a key
// the provider is returned unconfigured and every call fails with a
// ConfigurationError.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return &GeminiProvider{}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		generate: func(ctx context.Context, model, prompt string) (*genai.GenerateContentResponse, error) {
			return client.GenerativeModel(model).GenerateContent(ctx, genai.Text(prompt))
		},
	}, nil
}

func (p *GeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *GeminiProvider) Configured() bool {
	return p.generate != nil
}

func (p *GeminiProvider) Generate(ctx context.Context, message, model string) (string, error) {
	if !p.Configured() {
		return "", &ConfigurationError{Provider: KindGemini}
	}

	resp, err := p.generate(ctx, model, message)
	if err != nil {
		return "", &UpstreamError{Provider: KindGemini, Message: "generate content failed", Cause: err}
	}
	if resp == nil {
		return "", &UpstreamError{Provider: KindGemini, Message: "empty response"}
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", &UpstreamError{
			Provider: KindGemini,
			Message:  fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason),
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		reason := "no candidates"
		if len(resp.Candidates) > 0 {
			reason = fmt.Sprintf("finish reason %s", resp.Candidates[0].FinishReason)
		}
		return "", &UpstreamError{Provider: KindGemini, Message: "empty reply (" + reason + ")"}
	}

	return text, nil
}

// extractText joins the text parts of the first candidate that has any.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var text strings.Builder
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
		if text.Len() > 0 {
			return text.String()
		}
	}
	return ""
}
