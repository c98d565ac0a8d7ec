package draw

import (
	"github.com/abhisek/circlez/internal/coach"
	"github.com/abhisek/circlez/internal/store"
)

// attemptSavedMsg is sent once a finished gesture has been written to the
// store (or built in memory when there is no store).
type attemptSavedMsg struct {
	Attempt *store.Attempt
	Err     error
}

// tipReadyMsg carries the coach tip for attempt number Attempt.
type tipReadyMsg struct {
	Attempt int
	Tip     coach.Tip
	Err     error
}

// exportDoneMsg reports the outcome of an export.
type exportDoneMsg struct {
	Path string
	Err  error
}

// sessionEventMsg confirms a session start/end event was persisted.
type sessionEventMsg struct {
	Err error
}
