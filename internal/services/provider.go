package services

import (
	"context"
	"fmt"
)

// ProviderKind is the closed set of upstream chat providers.
type ProviderKind int

const (
	KindGemini ProviderKind = iota + 1
	KindOpenAI
	KindDeepSeek
	KindOpenRouter
)

// AllKinds lists every provider in display order.
var AllKinds = []ProviderKind{KindGemini, KindOpenAI, KindDeepSeek, KindOpenRouter}

// ParseProviderKind maps the wire identifier to a kind. Matching is exact and
// case-sensitive.
func ParseProviderKind(id string) (ProviderKind, bool) {
	switch id {
	case "gemini":
		return KindGemini, true
	case "openai":
		return KindOpenAI, true
	case "deepseek":
		return KindDeepSeek, true
	case "openrouter":
		return KindOpenRouter, true
	default:
		return 0, false
	}
}

// ID is the wire identifier used in requests and the catalog.
func (k ProviderKind) ID() string {
	switch k {
	case KindGemini:
		return "gemini"
	case KindOpenAI:
		return "openai"
	case KindDeepSeek:
		return "deepseek"
	case KindOpenRouter:
		return "openrouter"
	default:
		return "unknown"
	}
}

// DisplayName is the human-facing provider name used in error messages.
func (k ProviderKind) DisplayName() string {
	switch k {
	case KindGemini:
		return "Gemini"
	case KindOpenAI:
		return "OpenAI"
	case KindDeepSeek:
		return "DeepSeek"
	case KindOpenRouter:
		return "OpenRouter"
	default:
		return "unknown"
	}
}

func (k ProviderKind) String() string {
	return k.ID()
}

// Provider turns a single user message into a single assistant reply.
// Implementations make exactly one upstream attempt.
type Provider interface {
	Generate(ctx context.Context, message, model string) (string, error)
	// Configured reports whether the provider has the credentials it needs.
	Configured() bool
}

// Providers holds one adapter per kind. It is built once at startup and
// never mutated.
type Providers struct {
	Gemini     Provider
	OpenAI     Provider
	DeepSeek   Provider
	OpenRouter Provider
}

// For returns the adapter for kind.
func (p *Providers) For(kind ProviderKind) Provider {
	switch kind {
	case KindGemini:
		return p.Gemini
	case KindOpenAI:
		return p.OpenAI
	case KindDeepSeek:
		return p.DeepSeek
	case KindOpenRouter:
		return p.OpenRouter
	default:
		panic(fmt.Sprintf("services: unknown provider kind %d", int(kind)))
	}
}
