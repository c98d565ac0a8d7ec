package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/circlez/internal/router"
	"github.com/abhisek/circlez/internal/scoring"
	"github.com/abhisek/circlez/internal/screen"
	"github.com/abhisek/circlez/internal/session"
	"github.com/abhisek/circlez/internal/ui/layout"
	"github.com/abhisek/circlez/internal/ui/theme"
)

// SummaryScreen displays the results of one drawing session.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, router.Pop
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Session complete!"))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	if sum.Scored == 0 {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
			fmt.Sprintf("%d attempts, none long enough to score.", sum.Attempts)))
		return b.String()
	}

	statsLine := fmt.Sprintf("Attempts: %d        Scored: %d        Average: %.1f",
		sum.Attempts, sum.Scored, sum.Average)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), statsLine))
	b.WriteString("\n\n")

	bestLine := fmt.Sprintf("Session best: %s", theme.ScoreStyle(sum.SessionBest).Render(fmt.Sprintf("%d", sum.SessionBest)))
	if sum.NewBest {
		bestLine += lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("   ★ new all-time best!")
	} else {
		bestLine += lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("   all-time best: %d", sum.Best))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bestLine))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 48)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Grades")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	b.WriteString(renderTiers(sum, width))
	return b.String()
}

// renderTiers draws one row per grade with a bar proportional to its count.
func renderTiers(sum *session.Summary, width int) string {
	const barMax = 30
	var rows []string
	for _, t := range scoring.Tiers() {
		n := sum.Tiers[t]
		bar := strings.Repeat("█", n*barMax/sum.Scored)
		if n > 0 && bar == "" {
			bar = "▏"
		}
		label := lipgloss.NewStyle().Width(16).Foreground(theme.Text).Render(t.String())
		row := label + lipgloss.NewStyle().Foreground(theme.TierColor(t)).Render(fmt.Sprintf("%-*s", barMax, bar)) +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %d", n))
		rows = append(rows, row)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(rows, "\n"))
}
