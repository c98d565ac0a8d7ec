package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/circlez/internal/ui/theme"
)

// ScoreBar displays a labelled 0–100 value as a horizontal bar.
type ScoreBar struct {
	Label string
	Value float64 // 0..100
	Width int     // total width including label and number
	Color color.Color
}

// NewScoreBar creates a bar in the secondary colour.
func NewScoreBar(label string, value float64, width int) ScoreBar {
	return ScoreBar{Label: label, Value: value, Width: width, Color: theme.Secondary}
}

// View renders the bar.
func (p ScoreBar) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(11).Render(p.Label)
	number := lipgloss.NewStyle().Foreground(theme.Text).Width(5).Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f", p.Value))

	barWidth := max(p.Width-lipgloss.Width(label)-lipgloss.Width(number)-1, 4)
	filled := min(max(int(float64(barWidth)*p.Value/100+0.5), 0), barWidth)

	bar := lipgloss.NewStyle().Foreground(p.Color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled))

	return label + bar + " " + number
}
