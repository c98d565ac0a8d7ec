package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/circlez/internal/store"
)

// NewProvider builds the configured provider wrapped as
// retry(logging(base)), so each attempt gets its own log row.
// repo may be nil.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo) (Provider, error) {
	ep := cfg.Endpoint()

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(ep)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(ep)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, ep)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(ep)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown coach provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, cfg.Provider, repo), cfg.Retry), nil
}
