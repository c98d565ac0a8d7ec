package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	first, err := mock.Generate(context.Background(), UserPrompt("", "first"))
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if string(first.Content) != `{"a":1}` || first.Usage.InputTokens != 10 {
		t.Errorf("first = %s %+v", first.Content, first.Usage)
	}
	if first.StopReason != StopEnd || first.Model != "mock" {
		t.Errorf("first stop/model = %q/%q", first.StopReason, first.Model)
	}

	second, err := mock.Generate(context.Background(), UserPrompt("", "second"))
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if string(second.Content) != `{"b":2}` {
		t.Errorf("second = %s", second.Content)
	}

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("empty queue err = %T, want ErrProviderUnavailable", err)
	}
	if mock.CallCount() != 3 {
		t.Errorf("calls = %d, want 3", mock.CallCount())
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"headline":"x"}`)})
	req := UserPrompt("", "tip")
	req.Schema = tipTestSchema()

	_, err := mock.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %v, want ErrInvalidResponse", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider()
	mock.Push(MockResponse{Content: json.RawMessage(`{}`)})

	_, _ = mock.Generate(context.Background(), UserPrompt("sys", "hello"))

	calls := mock.Calls()
	if len(calls) != 1 || calls[0].System != "sys" || calls[0].Messages[0].Content != "hello" {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("PurposeFrom(empty) = %q, want unknown", p)
	}
	if p := PurposeFrom(WithPurpose(ctx, "tip")); p != "tip" {
		t.Fatalf("PurposeFrom = %q, want tip", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	withKey := func(provider string) Config {
		c := DefaultConfig()
		c.Provider = provider
		c.SetAPIKey(provider, "sk-test")
		return c
	}
	noKey := func(provider string) Config {
		c := DefaultConfig()
		c.Provider = provider
		return c
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", noKey(ProviderAnthropic), true},
		{"anthropic with key", withKey(ProviderAnthropic), false},
		{"openai without key", noKey(ProviderOpenAI), true},
		{"gemini with key", withKey(ProviderGemini), false},
		{"openrouter without key", noKey(ProviderOpenRouter), true},
		{"mock needs no key", noKey(ProviderMock), false},
		{"unknown provider", noKey("cohere"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CIRCLEZ_LLM_PROVIDER", "OpenAI")
	t.Setenv("CIRCLEZ_OPENAI_API_KEY", "sk-env")
	t.Setenv("CIRCLEZ_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("CIRCLEZ_OPENAI_BASE_URL", "http://localhost:11434/v1")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenAI {
		t.Fatalf("provider = %q", cfg.Provider)
	}
	want := Endpoint{APIKey: "sk-env", Model: "gpt-4.1-mini", BaseURL: "http://localhost:11434/v1"}
	if got := cfg.Endpoint(); got != want {
		t.Errorf("endpoint = %+v, want %+v", got, want)
	}
	if cfg.Endpoints[ProviderAnthropic].Model != "claude-haiku" {
		t.Errorf("anthropic default model lost: %+v", cfg.Endpoints[ProviderAnthropic])
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, name := range Providers {
		t.Setenv(standardKeyEnv[name], "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected a provider")
	}
	if cfg.Provider != ProviderOpenAI || cfg.Endpoint().APIKey != "sk-oai" {
		t.Errorf("discovered %q with %+v, want openai first", cfg.Provider, cfg.Endpoint())
	}
}

type fakeKeys map[string]string

var errNoKey = errors.New("no key")

func (f fakeKeys) Get(provider string) (string, error) {
	if k, ok := f[provider]; ok {
		return k, nil
	}
	return "", errNoKey
}

func TestFillFromKeyring(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetAPIKey(ProviderOpenAI, "from-env")

	isMissing := func(err error) bool { return errors.Is(err, errNoKey) }
	err := cfg.FillFromKeyring(fakeKeys{ProviderOpenAI: "from-keyring", ProviderGemini: "gem"}, isMissing)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := cfg.Endpoints[ProviderOpenAI].APIKey; got != "from-env" {
		t.Errorf("openai key = %q, env should win", got)
	}
	if got := cfg.Endpoints[ProviderGemini].APIKey; got != "gem" {
		t.Errorf("gemini key = %q", got)
	}
	if cfg.Endpoints[ProviderGemini].Model != "gemini-flash" {
		t.Error("filling a key dropped the model")
	}

	broken := errors.New("dbus down")
	other := DefaultConfig()
	err = other.FillFromKeyring(KeyGetterFunc(func(string) (string, error) { return "", broken }), isMissing)
	if !errors.Is(err, broken) {
		t.Errorf("err = %v, want keychain failure surfaced", err)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("claude-haiku")
	if c == nil {
		t.Fatal("expected pricing for alias")
	}
	if got := c.Cost(1_000_000, 1_000_000); got != 6 {
		t.Errorf("cost = %v, want 6", got)
	}
	if LookupCost("no-such-model") != nil {
		t.Error("expected nil for unknown model")
	}
}
