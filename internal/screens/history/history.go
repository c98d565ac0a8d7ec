package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/circlez/internal/router"
	"github.com/abhisek/circlez/internal/scoring"
	"github.com/abhisek/circlez/internal/screen"
	"github.com/abhisek/circlez/internal/store"
	"github.com/abhisek/circlez/internal/ui/layout"
	"github.com/abhisek/circlez/internal/ui/theme"
)

// PageSize is how many attempts the screen loads.
const PageSize = 50

type historyLoadedMsg struct {
	Attempts []store.Attempt
	Err      error
}

// HistoryScreen lists past attempts, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	attempts  []store.Attempt
	selected  int
	offset    int
	expanded  map[string]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[string]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		attempts, err := repo.RecentAttempts(ctx, store.QueryOpts{Limit: PageSize})
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
		case "enter", "space":
			if s.selected < len(s.attempts) {
				id := s.attempts[s.selected].ID
				s.expanded[id] = !s.expanded[id]
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet. Go draw a circle!")
	}

	lines := []string{""}
	selectedLine := 0
	for i, a := range s.attempts {
		if i == s.selected {
			selectedLine = len(lines)
		}
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderRow(i, a)))
		if s.expanded[a.ID] {
			for _, d := range details(a) {
				lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(d)))
			}
		}
	}

	// Keep the selection on screen.
	if height > 0 && len(lines) > height {
		if selectedLine < s.offset {
			s.offset = selectedLine
		}
		if selectedLine >= s.offset+height {
			s.offset = selectedLine - height + 1
		}
		s.offset = min(s.offset, len(lines)-height)
		lines = lines[s.offset : s.offset+height]
	} else {
		s.offset = 0
	}
	return strings.Join(lines, "\n")
}

func (s *HistoryScreen) renderRow(i int, a store.Attempt) string {
	prefix := "  "
	if i == s.selected {
		prefix = "> "
	}
	when := a.CreatedAt.Local().Format("Jan 02 15:04")

	var result string
	if a.Scored {
		result = fmt.Sprintf("%3d  %-14s", a.Score, a.Grade)
	} else {
		result = fmt.Sprintf("%3s  %-14s", "—", "too short")
	}
	best := "  "
	if a.NewBest {
		best = " ★"
	}
	line := fmt.Sprintf("%s%s   %s%s   %d pts", prefix, when, result, best, a.PointCount)

	style := lipgloss.NewStyle().Foreground(theme.Text)
	switch {
	case i == s.selected:
		style = style.Foreground(theme.Primary).Bold(true)
	case a.Scored:
		style = style.Foreground(theme.TierColor(scoring.GradeFor(a.Score).Tier))
	default:
		style = style.Foreground(theme.TextDim)
	}
	return style.Render(line)
}

func details(a store.Attempt) []string {
	if !a.Scored {
		return []string{fmt.Sprintf("      only %d points; %d are needed to score", a.PointCount, scoring.MinPoints)}
	}
	return []string{
		fmt.Sprintf("      regularity %5.1f   closure %5.1f   points %5.1f", a.Regularity, a.Closure, a.PointScore),
		fmt.Sprintf("      radius %.1fpx ± %.1f   gap %.1fpx", a.AvgRadius, a.StdDev, a.ClosureDistance),
	}
}
