package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/circlez/internal/router"
	"github.com/abhisek/circlez/internal/screen"
	"github.com/abhisek/circlez/internal/screens/draw"
	"github.com/abhisek/circlez/internal/screens/history"
	"github.com/abhisek/circlez/internal/screens/stats"
	"github.com/abhisek/circlez/internal/store"
	"github.com/abhisek/circlez/internal/ui/components"
	"github.com/abhisek/circlez/internal/ui/theme"
)

const titleFull = ` ██████╗██╗██████╗  ██████╗██╗     ███████╗███████╗
██╔════╝██║██╔══██╗██╔════╝██║     ██╔════╝╚══███╔╝
██║     ██║██████╔╝██║     ██║     █████╗    ███╔╝
██║     ██║██╔══██╗██║     ██║     ██╔══╝   ███╔╝
╚██████╗██║██║  ██║╚██████╗███████╗███████╗███████╗
 ╚═════╝╚═╝╚═╝  ╚═╝ ╚═════╝╚══════╝╚══════╝╚══════╝`

const titleCompact = "C · I · R · C · L · E · Z"

type statsLoadedMsg struct {
	Stats store.Stats
	Err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	deps  screen.Deps
	menu  components.Menu
	stats store.Stats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps screen.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "DRAW", Key: "d", Action: func() tea.Cmd {
			return router.Push(draw.New(h.deps, h.stats.Best))
		}},
		{Label: "HISTORY", Key: "h", Action: func() tea.Cmd {
			return router.Push(history.New(h.deps.Repo))
		}},
		{Label: "STATS", Key: "s", Action: func() tea.Cmd {
			return router.Push(stats.New(h.deps.Repo))
		}},
		{Label: "QUIT", Key: "q", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	repo := h.deps.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		st, err := repo.Stats(ctx)
		return statsLoadedMsg{Stats: st, Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			h.deps.Logger().Warn("load stats", "err", msg.Err)
			return h, nil
		}
		h.stats = msg.Stats
		return h, nil
	case router.ResumedMsg:
		return h, h.loadStats()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 22 || width < 90
	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.stats, cw),
		components.ArcadeMenu(h.menu.Labels(), h.menu.Selected, cw, compact),
	}
	if h.deps.Hub != nil {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).Align(lipgloss.Center).
			Render(fmt.Sprintf("sharing attempts as %q", h.deps.Source)))
	}
	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func renderTitle(cw int, compact bool) string {
	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(art))
}

func renderStatsBar(st store.Stats, cw int) string {
	best := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	count := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	avg := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)

	bar := fmt.Sprintf("%s  %s  %s",
		best.Render(fmt.Sprintf("★ BEST %d", st.Best)),
		count.Render(fmt.Sprintf("◯ %d ATTEMPTS", st.Attempts)),
		avg.Render(fmt.Sprintf("≈ AVG %.0f", st.Average)),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(bar)
}
