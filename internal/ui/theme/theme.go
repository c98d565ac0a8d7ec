package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/circlez/internal/scoring"
)

// Color palette, neon on near-black to match the canvas
var (
	Primary      = lipgloss.Color("#A855F7") // Violet
	Secondary    = lipgloss.Color("#22D3EE") // Cyan
	Accent       = lipgloss.Color("#F97316") // Orange
	Success      = lipgloss.Color("#22C55E") // Green
	Error        = lipgloss.Color("#F43F5E") // Rose
	Text         = lipgloss.Color("#F8FAFC") // White
	TextDim      = lipgloss.Color("#94A3B8") // Slate
	BgDark       = lipgloss.Color("#0A0A0A") // Canvas black
	BgCard       = lipgloss.Color("#18181B") // Zinc
	Border       = lipgloss.Color("#3F3F46") // Zinc
	ArcadeYellow = lipgloss.Color("#FACC15")
	ArcadeCyan   = lipgloss.Color("#22D3EE")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)
)

// TierColor is the colour a grade tier is shown in.
func TierColor(t scoring.Tier) color.Color {
	switch t {
	case scoring.TierPerfect:
		return ArcadeYellow
	case scoring.TierExcellent:
		return Success
	case scoring.TierGood:
		return Secondary
	case scoring.TierPass:
		return Text
	default:
		return Error
	}
}

// ScoreStyle renders a score in its tier colour.
func ScoreStyle(score int) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(TierColor(scoring.GradeFor(score).Tier))
}
