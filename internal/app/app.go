// Package app is the root Bubble Tea model: it owns the screen stack and
// draws the frame around the active screen.
package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/circlez/internal/router"
	"github.com/abhisek/circlez/internal/screen"
	"github.com/abhisek/circlez/internal/screens/home"
	"github.com/abhisek/circlez/internal/ui/layout"
)

// headerStatsMsg carries the all-time figures shown in the header.
type headerStatsMsg struct {
	best     int
	attempts int
	err      error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   screen.Deps
	router *router.Router
	width  int
	height int

	best     int
	attempts int
}

// New creates the root model with the home screen at the bottom of the
// stack.
func New(deps screen.Deps) AppModel {
	return AppModel{
		deps:   deps,
		router: router.New(home.New(deps)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.loadHeaderStats())
}

func (m AppModel) loadHeaderStats() tea.Cmd {
	repo := m.deps.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		st, err := repo.Stats(ctx)
		if err != nil {
			return headerStatsMsg{err: err}
		}
		return headerStatsMsg{best: st.Best, attempts: st.Attempts}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(m.resizeMsg())

	case headerStatsMsg:
		if msg.err != nil {
			m.deps.Logger().Warn("load header stats", "err", msg.err)
			return m, nil
		}
		m.best = max(m.best, msg.best)
		m.attempts = max(m.attempts, msg.attempts)
		return m, nil

	case screen.AttemptMsg:
		m.attempts++
		if msg.Scored {
			m.best = max(m.best, msg.Score)
		}
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}

	case tea.MouseClickMsg:
		return m, m.router.Update(tea.MouseClickMsg(m.contentMouse(msg.Mouse())))
	case tea.MouseMotionMsg:
		return m, m.router.Update(tea.MouseMotionMsg(m.contentMouse(msg.Mouse())))
	case tea.MouseReleaseMsg:
		return m, m.router.Update(tea.MouseReleaseMsg(m.contentMouse(msg.Mouse())))

	case router.PushScreenMsg, router.ReplaceScreenMsg:
		cmd := m.router.Update(msg)
		// The new screen has not seen the window size yet.
		return m, tea.Batch(cmd, m.router.Update(m.resizeMsg()))
	}

	return m, m.router.Update(msg)
}

// contentMouse translates a window position into content coordinates.
func (m AppModel) contentMouse(ms tea.Mouse) tea.Mouse {
	ms.Y -= layout.HeaderHeight
	return ms
}

func (m AppModel) resizeMsg() screen.ResizeMsg {
	return screen.ResizeMsg{Width: m.width, Height: layout.ContentHeight(m.height)}
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// render draws the whole frame as a string.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.best, m.attempts, m.width)
	footer := layout.RenderFooter(m.keyHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) keyHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, deps screen.Deps) error {
	p := tea.NewProgram(New(deps), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
