package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abhisek/circlez/internal/store"
)

func openLogStore(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLoggingProvider_RecordsRequests(t *testing.T) {
	repo := openLogStore(t)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 12, OutputTokens: 8}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}},
	)
	p := WithLogging(mock, ProviderMock, repo).(*LoggingProvider)
	tick := time.Unix(0, 0)
	p.now = func() time.Time {
		tick = tick.Add(150 * time.Millisecond)
		return tick
	}

	ctx := WithPurpose(context.Background(), "tip")
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected second call to fail")
	}

	usage, err := repo.CoachUsage(context.Background())
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("usage rows = %d, want 1", len(usage))
	}
	want := store.CoachUsage{Model: "mock", Requests: 2, Failures: 1, InputTokens: 12, OutputTokens: 8}
	if usage[0] != want {
		t.Errorf("usage = %+v, want %+v", usage[0], want)
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	mock := NewMockProvider()
	if p := WithLogging(mock, ProviderMock, nil); p != Provider(mock) {
		t.Errorf("nil repo should return the provider unwrapped, got %T", p)
	}
}

func TestNewProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("ModelID = %q", p.ModelID())
	}

	cfg.Provider = ProviderAnthropic
	if _, err := NewProvider(context.Background(), cfg, nil); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("anthropic without key err = %v, want ErrNoAPIKey", err)
	}

	cfg.Provider = "bogus"
	if _, err := NewProvider(context.Background(), cfg, nil); err == nil {
		t.Error("expected unknown provider error")
	}
}
