// Package stats shows aggregates over every stored attempt.
package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/circlez/internal/llm"
	"github.com/abhisek/circlez/internal/router"
	"github.com/abhisek/circlez/internal/scoring"
	"github.com/abhisek/circlez/internal/screen"
	"github.com/abhisek/circlez/internal/store"
	"github.com/abhisek/circlez/internal/ui/components"
	"github.com/abhisek/circlez/internal/ui/layout"
	"github.com/abhisek/circlez/internal/ui/theme"
)

type statsLoadedMsg struct {
	Stats store.Stats
	Usage []store.CoachUsage
	Err   error
}

// StatsScreen displays all-time totals and coach usage.
type StatsScreen struct {
	repo   store.EventRepo
	stats  store.Stats
	usage  []store.CoachUsage
	loaded bool
	errMsg string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)

// New creates a new StatsScreen.
func New(repo store.EventRepo) *StatsScreen {
	return &StatsScreen{repo: repo}
}

func (s *StatsScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		if repo == nil {
			return statsLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		st, err := repo.Stats(ctx)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		usage, err := repo.CoachUsage(ctx)
		return statsLoadedMsg{Stats: st, Usage: usage, Err: err}
	}
}

func (s *StatsScreen) Title() string { return "Stats" }

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.stats = msg.Stats
		s.usage = msg.Usage
	case tea.KeyPressMsg:
		if msg.String() == "esc" || msg.String() == "q" {
			return s, router.Pop
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading stats...")
	case s.stats.Attempts == 0:
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n  Nothing recorded yet.")
	}

	cw := components.ContentWidth(width)
	st := s.stats
	var b strings.Builder
	fmt.Fprintf(&b, "Attempts %d   Scored %d   Sessions %d\n", st.Attempts, st.Scored, st.Sessions)
	fmt.Fprintf(&b, "Best %s   Average %.1f\n",
		theme.ScoreStyle(st.Best).Render(fmt.Sprintf("%d", st.Best)), st.Average)
	if !st.Last.IsZero() {
		fmt.Fprintf(&b, "Last attempt %s\n", st.Last.Local().Format("Jan 02 15:04"))
	}
	b.WriteString("\n")
	for _, t := range scoring.Tiers() {
		label := t.String()
		pct := 0.0
		if st.Scored > 0 {
			pct = float64(st.Grades[label]) / float64(st.Scored) * 100
		}
		bar := components.NewScoreBar(label, pct, cw-8)
		bar.Color = theme.TierColor(t)
		b.WriteString(bar.View() + "\n")
	}

	sections := []string{components.ArcadeCard(strings.TrimRight(b.String(), "\n"), cw)}
	if len(s.usage) > 0 {
		sections = append(sections, components.ArcadeCard(renderUsage(s.usage), cw))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}

func renderUsage(usage []store.CoachUsage) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Coach usage") + "\n")
	var total float64
	for _, u := range usage {
		price := "      n/a"
		if c := llm.LookupCost(u.Model); c != nil {
			cost := c.Cost(u.InputTokens, u.OutputTokens)
			total += cost
			price = fmt.Sprintf("$%.4f", cost)
		}
		fmt.Fprintf(&b, "%-28s %4d req  %3d failed  %s\n", u.Model, u.Requests, u.Failures, price)
	}
	fmt.Fprintf(&b, "%-28s %27s", "", fmt.Sprintf("total $%.4f", total))
	return b.String()
}
