package llm

import (
	"fmt"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider is an OpenAI-compatible provider pointed at OpenRouter.
// Model ids are passed through as "vendor/model".
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider builds a provider from ep, defaulting the base URL.
func NewOpenRouterProvider(ep Endpoint) (*OpenRouterProvider, error) {
	if ep.APIKey == "" {
		return nil, fmt.Errorf("openrouter: %w", ErrNoAPIKey)
	}
	if ep.BaseURL == "" {
		ep.BaseURL = defaultOpenRouterBaseURL
	}
	client := &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}
	return &OpenRouterProvider{OpenAIProvider: newOpenAICompatible(ep, client)}, nil
}

// attributionTransport adds the app headers OpenRouter uses for its
// rankings page.
type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("HTTP-Referer", "https://github.com/abhisek/circlez")
	r.Header.Set("X-Title", "circlez")
	return t.base.RoundTrip(r)
}
