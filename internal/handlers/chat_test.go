package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sitechat-backend/internal/logging"
	"sitechat-backend/internal/metrics"
	"sitechat-backend/internal/middleware"
	"sitechat-backend/internal/services"
)

type stubProvider struct {
	reply string
	err   error
	calls int
}

func (s *stubProvider) Generate(ctx context.Context, message, model string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *stubProvider) Configured() bool { return s.err == nil }

type chatFixture struct {
	handler *ChatHandler
	logs    *bytes.Buffer
	stub    *stubProvider
}

// newChatFixture wires a real ChatService. Every provider is the stub unless
// overridden.
func newChatFixture(t *testing.T, mockLatency time.Duration, enforce bool, override func(p *services.Providers)) *chatFixture {
	t.Helper()

	catalog, err := services.LoadCatalog()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	stub := &stubProvider{reply: "stub reply"}
	providers := &services.Providers{Gemini: stub, OpenAI: stub, DeepSeek: stub, OpenRouter: stub}
	if override != nil {
		override(providers)
	}

	logs := &bytes.Buffer{}
	logger := logging.New(logging.Config{Level: "debug", Format: "text", Output: logs})
	m := metrics.New()

	chat := services.NewChatService(providers, catalog, m, logger, mockLatency)
	return &chatFixture{
		handler: NewChatHandler(chat, m, logger, enforce),
		logs:    logs,
		stub:    stub,
	}
}

func postChat(t *testing.T, h *ChatHandler, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	h.Chat(rr, req)

	var result map[string]string
	if rr.Body.Len() > 0 {
		if err := json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&result); err != nil {
			t.Fatalf("Failed to decode response %q: %v", rr.Body.String(), err)
		}
	}
	return rr, result
}

func TestChat_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"invalid json", `{"message":`, "Invalid request body"},
		{"wrong type", `{"message": 42}`, "Invalid request body"},
		{"missing message", `{"selectedProvider":"gemini","subModel":"gemini-2.0-flash"}`, "Message is required"},
		{"empty message", `{"message":"","selectedProvider":"gemini","subModel":"gemini-2.0-flash"}`, "Message is required"},
		{"blank message", `{"message":"   ","useMock":true}`, "Message is required"},
		{"missing message wins over missing provider", `{}`, "Message is required"},
		{"empty body", ``, "Message is required"},
		{"missing provider", `{"message":"hi","useMock":false}`, "Selected provider is required"},
		{"missing provider wins over missing model", `{"message":"hi"}`, "Selected provider is required"},
		{"missing model", `{"message":"hi","selectedProvider":"gemini"}`, "Specific model selection is required"},
		{"empty model", `{"message":"hi","selectedProvider":"openai","subModel":""}`, "Specific model selection is required"},
		{"unknown provider", `{"message":"hi","selectedProvider":"anthropic","subModel":"claude"}`, "Invalid AI provider selected."},
		{"provider is case-sensitive", `{"message":"hi","selectedProvider":"Gemini","subModel":"gemini-2.0-flash"}`, "Invalid AI provider selected."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newChatFixture(t, 0, false, nil)

			rr, result := postChat(t, f.handler, tc.body)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rr.Code)
			}
			if result["error"] != tc.wantErr {
				t.Errorf("Expected error %q, got %q", tc.wantErr, result["error"])
			}
			if f.stub.calls != 0 {
				t.Errorf("Expected no provider call, got %d", f.stub.calls)
			}
		})
	}
}

func TestChat_MockMode(t *testing.T) {
	f := newChatFixture(t, 500*time.Millisecond, false, nil)

	start := time.Now()
	rr, _ := postChat(t, f.handler, `{"message":"hi","selectedProvider":"gemini","subModel":"gemini-2.0-flash","useMock":true}`)
	elapsed := time.Since(start)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"response":"Simulated gemini response to: \"hi\""}` {
		t.Errorf("Unexpected body %s", got)
	}
	if elapsed < 500*time.Millisecond {
		t.Errorf("Expected at least 500ms simulated latency, got %s", elapsed)
	}
	if f.stub.calls != 0 {
		t.Errorf("Expected no provider call in mock mode, got %d", f.stub.calls)
	}
}

func TestChat_MockModeIgnoresProviderAndModel(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no provider or model", `{"message":"hello","useMock":true}`, `Simulated  response to: "hello"`},
		{"unknown provider", `{"message":"hello","selectedProvider":"anthropic","useMock":true}`, `Simulated anthropic response to: "hello"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newChatFixture(t, time.Millisecond, false, nil)

			rr, result := postChat(t, f.handler, tc.body)

			if rr.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", rr.Code)
			}
			if result["response"] != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, result["response"])
			}
		})
	}
}

func TestChat_RealProviderSuccess(t *testing.T) {
	f := newChatFixture(t, 0, false, nil)

	rr, result := postChat(t, f.handler, `{"message":"hi","selectedProvider":"openai","subModel":"gpt-4o"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if result["response"] != "stub reply" {
		t.Errorf("Expected 'stub reply', got %q", result["response"])
	}
	if !strings.Contains(f.logs.String(), "provider=openai") || !strings.Contains(f.logs.String(), "model=gpt-4o") {
		t.Errorf("Expected provider and model to be logged, got:\n%s", f.logs.String())
	}
}

func TestChat_IdenticalRequestsCallUpstreamTwice(t *testing.T) {
	f := newChatFixture(t, 0, false, nil)
	body := `{"message":"hi","selectedProvider":"deepseek","subModel":"deepseek-chat"}`

	postChat(t, f.handler, body)
	postChat(t, f.handler, body)

	if f.stub.calls != 2 {
		t.Errorf("Expected 2 upstream calls, got %d", f.stub.calls)
	}
}

func TestChat_MissingCredentials(t *testing.T) {
	tests := []struct {
		provider string
		model    string
		wantErr  string
	}{
		{"gemini", "gemini-2.0-flash", "Gemini service configuration error."},
		{"openai", "gpt-4o", "OpenAI service configuration error."},
		{"deepseek", "deepseek-chat", "DeepSeek service configuration error."},
		{"openrouter", "deepseek/deepseek-r1-zero:free", "OpenRouter service configuration error."},
	}

	for _, tc := range tests {
		t.Run(tc.provider, func(t *testing.T) {
			f := newChatFixture(t, 0, false, func(p *services.Providers) {
				gemini, err := services.NewGeminiProvider(context.Background(), "")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				p.Gemini = gemini
				p.OpenAI = services.NewOpenAIProvider("", "", nil)
				p.DeepSeek = services.NewDeepSeekProvider("", "http://127.0.0.1:1", nil)
				p.OpenRouter = services.NewOpenRouterProvider("", "http://127.0.0.1:1", "", "", nil)
			})

			body := `{"message":"hi","selectedProvider":"` + tc.provider + `","subModel":"` + tc.model + `"}`
			rr, result := postChat(t, f.handler, body)

			if rr.Code != http.StatusInternalServerError {
				t.Errorf("Expected status 500, got %d", rr.Code)
			}
			if result["error"] != tc.wantErr {
				t.Errorf("Expected error %q, got %q", tc.wantErr, result["error"])
			}
			if strings.Contains(rr.Body.String(), "goroutine") {
				t.Error("Expected no stack trace in response")
			}
		})
	}
}

func TestChat_DeepSeekUpstream503(t *testing.T) {
	const upstreamBody = `{"error":{"message":"Service temporarily overloaded, secret-trace-id-42"}}`

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(upstreamBody))
	}))
	defer upstream.Close()

	f := newChatFixture(t, 0, false, func(p *services.Providers) {
		p.DeepSeek = services.NewDeepSeekProvider("ds-key", upstream.URL, upstream.Client())
	})

	rr, _ := postChat(t, f.handler, `{"message":"hi","selectedProvider":"deepseek","subModel":"deepseek-chat"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rr.Code)
	}
	want := `{"error":"An error occurred while processing your request with DeepSeek."}`
	if got := strings.TrimSpace(rr.Body.String()); got != want {
		t.Errorf("Expected body %s, got %s", want, got)
	}
	if strings.Contains(rr.Body.String(), "secret-trace-id-42") {
		t.Error("Expected upstream body to stay out of the response")
	}
	if !strings.Contains(f.logs.String(), "secret-trace-id-42") {
		t.Errorf("Expected upstream body in server logs, got:\n%s", f.logs.String())
	}
	if !strings.Contains(f.logs.String(), "status=503") {
		t.Errorf("Expected upstream status in server logs")
	}
}

func TestChat_UpstreamErrorMessagesPerProvider(t *testing.T) {
	tests := []struct {
		provider string
		display  string
	}{
		{"gemini", "Gemini"},
		{"openai", "OpenAI"},
		{"deepseek", "DeepSeek"},
		{"openrouter", "OpenRouter"},
	}

	for _, tc := range tests {
		t.Run(tc.provider, func(t *testing.T) {
			failing := &stubProvider{err: &services.UpstreamError{Message: "boom"}}
			f := newChatFixture(t, 0, false, func(p *services.Providers) {
				p.Gemini, p.OpenAI, p.DeepSeek, p.OpenRouter = failing, failing, failing, failing
			})

			rr, result := postChat(t, f.handler, `{"message":"hi","selectedProvider":"`+tc.provider+`","subModel":"m"}`)

			if rr.Code != http.StatusInternalServerError {
				t.Errorf("Expected status 500, got %d", rr.Code)
			}
			want := "An error occurred while processing your request with " + tc.display + "."
			if result["error"] != want {
				t.Errorf("Expected %q, got %q", want, result["error"])
			}
		})
	}
}

func TestChat_CatalogMembership(t *testing.T) {
	tests := []struct {
		name     string
		enforce  bool
		body     string
		wantCode int
	}{
		{"permissive by default", false, `{"message":"hi","selectedProvider":"gemini","subModel":"gpt-4o"}`, http.StatusOK},
		{"enforced rejects foreign model", true, `{"message":"hi","selectedProvider":"gemini","subModel":"gpt-4o"}`, http.StatusBadRequest},
		{"enforced allows listed model", true, `{"message":"hi","selectedProvider":"gemini","subModel":"gemini-2.0-flash"}`, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newChatFixture(t, 0, tc.enforce, nil)

			rr, result := postChat(t, f.handler, tc.body)

			if rr.Code != tc.wantCode {
				t.Errorf("Expected status %d, got %d (%v)", tc.wantCode, rr.Code, result)
			}
			if tc.wantCode == http.StatusBadRequest && result["error"] != "Selected model is not available for this provider." {
				t.Errorf("Unexpected error %q", result["error"])
			}
		})
	}
}

func TestChat_FailureLoggedOnceWithRequestID(t *testing.T) {
	f := newChatFixture(t, 0, false, nil)
	f.stub.err = &services.UpstreamError{Provider: services.KindOpenAI, StatusCode: 502, Message: "bad gateway"}
	h := middleware.RequestID(http.HandlerFunc(f.handler.Chat))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi","selectedProvider":"openai","subModel":"gpt-4o"}`))
	req.Header.Set("X-Request-ID", "req-77")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rr.Code)
	}
	logs := f.logs.String()
	if n := strings.Count(logs, "level=ERROR"); n != 1 {
		t.Errorf("Expected one error line, got %d:\n%s", n, logs)
	}
	if n := strings.Count(logs, "level=WARN"); n != 0 {
		t.Errorf("Expected no warn lines, got %d:\n%s", n, logs)
	}
	if !strings.Contains(logs, "request_id=req-77") {
		t.Errorf("Expected request ID in failure log, got:\n%s", logs)
	}
}

func TestChat_EmptyBodyIsNotMalformed(t *testing.T) {
	f := newChatFixture(t, 0, false, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", http.NoBody)
	rr := httptest.NewRecorder()
	f.handler.Chat(rr, req)

	var result map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if rr.Code != http.StatusBadRequest || result["error"] != "Message is required" {
		t.Errorf("Expected 400 'Message is required', got %d %q", rr.Code, result["error"])
	}
	if f.stub.calls != 0 {
		t.Errorf("Expected no provider call, got %d", f.stub.calls)
	}
}
