package draw

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/circlez/internal/scoring"
	"github.com/abhisek/circlez/internal/ui/components"
	"github.com/abhisek/circlez/internal/ui/theme"
)

func (s *DrawScreen) View(width, height int) string {
	if s.canvas == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Preparing canvas...")
	}

	var b strings.Builder
	b.WriteString(s.canvas.Terminal(s.cols, s.rows))
	b.WriteString("\n")
	b.WriteString(s.renderResult(width))
	b.WriteString("\n")
	b.WriteString(s.renderBars(width))
	b.WriteString("\n")
	b.WriteString(s.renderTip(width))
	b.WriteString("\n")
	b.WriteString(s.renderStatus(width))
	return b.String()
}

func (s *DrawScreen) renderResult(width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.last == nil {
		return dim.Render("  Press and drag anywhere on the canvas to draw a circle.")
	}
	res := s.last
	if !res.Scored {
		return lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf(
			"  Too short to score: %d points, need at least %d.", res.Breakdown.PointCount, scoring.MinPoints))
	}

	score := theme.ScoreStyle(res.Score).Render(fmt.Sprintf("%d", res.Score))
	grade := lipgloss.NewStyle().Foreground(theme.TierColor(res.Grade.Tier)).Bold(true).Render(res.Grade.Label)
	line := fmt.Sprintf("  Score %s  %s  %s", score, grade, dim.Render(res.Grade.Message))

	best := dim.Render(fmt.Sprintf("best %d", s.sess.Best()))
	if res.NewBest {
		best = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("★ new best!")
	}
	gap := max(width-lipgloss.Width(line)-lipgloss.Width(best)-2, 1)
	return line + strings.Repeat(" ", gap) + best
}

func (s *DrawScreen) renderBars(width int) string {
	if s.last == nil || !s.last.Scored {
		return ""
	}
	b := s.last.Breakdown
	third := max((width-4)/3, 20)
	bars := []components.ScoreBar{
		components.NewScoreBar("Regularity", b.Regularity, third),
		components.NewScoreBar("Closure", b.Closure, third),
		components.NewScoreBar("Points", b.PointScore, third),
	}
	parts := make([]string, len(bars))
	for i, bar := range bars {
		parts[i] = bar.View()
	}
	return "  " + strings.Join(parts, " ")
}

func (s *DrawScreen) renderTip(width int) string {
	switch {
	case s.tipLoading:
		return "  " + s.spinner.View() + lipgloss.NewStyle().Foreground(theme.TextDim).Render(" Coach is looking at your circle...")
	case s.tip == nil:
		return ""
	}
	head := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(s.tip.Headline)
	line := "  " + head + "  " + lipgloss.NewStyle().Foreground(theme.Text).Render(s.tip.Advice)
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func (s *DrawScreen) renderStatus(width int) string {
	if s.input != nil {
		return "  " + s.input.View()
	}
	if s.status == "" {
		return ""
	}
	color := theme.TextDim
	if s.statusErr {
		color = theme.Error
	}
	return lipgloss.NewStyle().Foreground(color).MaxWidth(width).Render("  " + s.status)
}
