package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIProvider uses the official SDK's chat completions API.
type OpenAIProvider struct {
	client     openai.Client
	configured bool
}

// NewOpenAIProvider builds the SDK client. baseURL is optional and only used
// to point at a compatible endpoint. SDK retries are disabled: a failed
// attempt is final.
func NewOpenAIProvider(apiKey, baseURL string, httpClient *http.Client) *OpenAIProvider {
	if apiKey == "" {
		return &OpenAIProvider{}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &OpenAIProvider{
		client:     openai.NewClient(opts...),
		configured: true,
	}
}

func (p *OpenAIProvider) Configured() bool {
	return p.configured
}

func (p *OpenAIProvider) Generate(ctx context.Context, message, model string) (string, error) {
	if !p.configured {
		return "", &ConfigurationError{Provider: KindOpenAI}
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(message),
		},
	})
	if err != nil {
		upstream := &UpstreamError{Provider: KindOpenAI, Message: "chat completion failed", Cause: err}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			upstream.StatusCode = apiErr.StatusCode
			upstream.Body = apiErr.RawJSON()
		}
		return "", upstream
	}

	if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
		return "", &UpstreamError{Provider: KindOpenAI, Message: "empty reply", Body: completion.RawJSON()}
	}

	return completion.Choices[0].Message.Content, nil
}
