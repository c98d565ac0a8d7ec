package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/circlez/internal/store"
)

// LoggingProvider records each call as a coach_request_events row.
type LoggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	now      func() time.Time
}

// WithLogging wraps p. provider is the name stored with each event. A nil
// repo disables logging.
func WithLogging(p Provider, provider string, repo store.EventRepo) Provider {
	if repo == nil {
		return p
	}
	return &LoggingProvider{inner: p, provider: provider, repo: repo, now: time.Now}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.CoachRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: l.now().Sub(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// The request outcome matters more than its log row. A cancelled ctx
	// would also drop the row, so log on a fresh one.
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if logErr := l.repo.AppendCoachRequest(logCtx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log coach request: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
