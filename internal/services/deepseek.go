package services

import "net/http"

// DeepSeekProvider calls the DeepSeek chat completions endpoint directly.
type DeepSeekProvider struct {
	completionsClient
}

func NewDeepSeekProvider(apiKey, url string, client *http.Client) *DeepSeekProvider {
	return &DeepSeekProvider{
		completionsClient: completionsClient{
			kind:   KindDeepSeek,
			url:    url,
			apiKey: apiKey,
			http:   httpClientOrDefault(client),
		},
	}
}
