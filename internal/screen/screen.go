package screen

import (
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/circlez/internal/coach"
	"github.com/abhisek/circlez/internal/feed"
	"github.com/abhisek/circlez/internal/render"
	"github.com/abhisek/circlez/internal/store"
	"github.com/abhisek/circlez/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that handle esc themselves
// instead of being popped.
type EscapeHandler interface {
	HandlesEscape() bool
}

// ResizeMsg carries the size of the content area. The app sends it on
// every window resize and whenever a new screen becomes active.
type ResizeMsg struct {
	Width  int
	Height int
}

// AttemptMsg tells the app a gesture finished, so the header can update.
type AttemptMsg struct {
	Score  int
	Scored bool
}

// Deps are the services screens share. Any field may be nil.
type Deps struct {
	Repo   store.EventRepo
	Coach  *coach.Coach
	Hub    *feed.Hub
	Source string
	Render render.Config
	Log    *slog.Logger
}

// Logger returns Log or the default logger.
func (d Deps) Logger() *slog.Logger {
	if d.Log == nil {
		return slog.Default()
	}
	return d.Log
}
