// Package coach turns a score breakdown into a short piece of advice, from
// a language model when one is configured and from fixed rules otherwise.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	"github.com/abhisek/circlez/internal/llm"
	"github.com/abhisek/circlez/internal/scoring"
)

// Focus names the score component a tip targets.
type Focus string

const (
	FocusRegularity Focus = "regularity"
	FocusClosure    Focus = "closure"
	FocusPacing     Focus = "pacing"
)

// Source values for Tip.Source.
const (
	SourceHeuristic = "heuristic"
	SourceModel     = "model"
)

// Tip is one piece of advice.
type Tip struct {
	Headline string `json:"headline"`
	Advice   string `json:"advice"`
	Focus    Focus  `json:"focus"`
	Source   string `json:"-"`
}

// Config tunes model requests.
type Config struct {
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns the request settings used by the CLI and TUI.
func DefaultConfig() Config {
	return Config{MaxTokens: 300, Temperature: 0.7, Timeout: 20 * time.Second}
}

// Coach produces tips. The zero value and a nil *Coach both fall back to
// Heuristic.
type Coach struct {
	provider llm.Provider
	cfg      Config
}

// New returns a coach backed by provider, which may be nil.
func New(provider llm.Provider, cfg Config) *Coach {
	return &Coach{provider: provider, cfg: cfg}
}

// Enabled reports whether tips come from a model.
func (c *Coach) Enabled() bool {
	return c != nil && c.provider != nil
}

// Tip asks the model for advice on b. When the model is unavailable or
// replies with something unusable, the heuristic tip is returned together
// with the error so callers can still show advice and surface the failure.
func (c *Coach) Tip(ctx context.Context, b scoring.Breakdown) (Tip, error) {
	if !c.Enabled() || b.PointCount < scoring.MinPoints {
		return Heuristic(b), nil
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, "tip")

	prompt, err := buildTipMessage(b)
	if err != nil {
		return Heuristic(b), fmt.Errorf("build tip prompt: %w", err)
	}

	req := llm.UserPrompt(tipSystemPrompt, prompt)
	req.Schema = TipSchema
	req.MaxTokens = c.cfg.MaxTokens
	req.Temperature = c.cfg.Temperature

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		return Heuristic(b), fmt.Errorf("coach tip: %w", err)
	}

	var tip Tip
	if err := json.Unmarshal(resp.Content, &tip); err != nil {
		return Heuristic(b), fmt.Errorf("parse tip: %w", err)
	}
	tip.Source = SourceModel
	return tip, nil
}

const tipSystemPrompt = `You coach people drawing freehand circles with a mouse. Each attempt is scored 1-100 from three parts:
- regularity (50%): how evenly every point sits from the centre; 100 is a perfect circle.
- closure (30%): how close the last point lands to the first, relative to the radius.
- pacing (20%): the number of sampled points; 50-200 is ideal, fewer means the hand moved too fast, more means too slow.

Instructions:
- Pick the single weakest part as the focus.
- Give concrete physical advice (wrist, speed, where to finish), never maths.
- Be warm and brief. No emojis.`

var tipUserTemplate = template.Must(template.New("tip").Parse(`Score: {{.Score}} ({{.Grade}})
Regularity: {{printf "%.1f" .Regularity}}
Closure: {{printf "%.1f" .Closure}}
Pacing: {{printf "%.1f" .PointScore}} ({{.PointCount}} points)
Average radius: {{printf "%.0f" .AvgRadius}}px, spread {{printf "%.1f" .StdDev}}px
Gap between start and end: {{printf "%.0f" .ClosureDistance}}px`))

func buildTipMessage(b scoring.Breakdown) (string, error) {
	data := struct {
		scoring.Breakdown
		Grade string
	}{b, scoring.GradeFor(b.Score).Label}

	var buf bytes.Buffer
	if err := tipUserTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
