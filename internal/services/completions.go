package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxReplyBytes caps how much of an upstream body is read.
const maxReplyBytes = 4 << 20

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// completionsClient speaks the OpenAI-compatible chat completions REST
// shape over plain HTTP. DeepSeek and OpenRouter both embed it.
type completionsClient struct {
	kind    ProviderKind
	url     string
	apiKey  string
	headers map[string]string
	http    *http.Client
}

func (c *completionsClient) Configured() bool {
	return c.apiKey != ""
}

func (c *completionsClient) Generate(ctx context.Context, message, model string) (string, error) {
	if !c.Configured() {
		return "", &ConfigurationError{Provider: c.kind}
	}

	payload, err := json.Marshal(completionRequest{
		Model:    model,
		Messages: []completionMessage{{Role: "user", Content: message}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode %s request: %w", c.kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", &UpstreamError{Provider: c.kind, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: c.kind, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", &UpstreamError{Provider: c.kind, StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{
			Provider:   c.kind,
			StatusCode: resp.StatusCode,
			Message:    "unexpected status",
			Body:       string(raw),
		}
	}

	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &UpstreamError{
			Provider:   c.kind,
			StatusCode: resp.StatusCode,
			Message:    "unparseable response",
			Body:       string(raw),
			Cause:      err,
		}
	}

	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", &UpstreamError{
			Provider:   c.kind,
			StatusCode: resp.StatusCode,
			Message:    "empty reply",
			Body:       string(raw),
		}
	}

	return parsed.Choices[0].Message.Content, nil
}

func httpClientOrDefault(client *http.Client) *http.Client {
	if client == nil {
		return http.DefaultClient
	}
	return client
}
