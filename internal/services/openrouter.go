package services

import "net/http"

// OpenRouterProvider calls the OpenRouter chat completions endpoint directly.
// OpenRouter uses HTTP-Referer and X-Title to attribute traffic to the site.
type OpenRouterProvider struct {
	completionsClient
}

func NewOpenRouterProvider(apiKey, url, referer, title string, client *http.Client) *OpenRouterProvider {
	headers := map[string]string{}
	if referer != "" {
		headers["HTTP-Referer"] = referer
	}
	if title != "" {
		headers["X-Title"] = title
	}

	return &OpenRouterProvider{
		completionsClient: completionsClient{
			kind:    KindOpenRouter,
			url:     url,
			apiKey:  apiKey,
			headers: headers,
			http:    httpClientOrDefault(client),
		},
	}
}
