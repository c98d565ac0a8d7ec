// Package draw is the drawing screen: the canvas, mouse gestures and the
// result panel.
package draw

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/circlez/internal/coach"
	"github.com/abhisek/circlez/internal/export"
	"github.com/abhisek/circlez/internal/feed"
	"github.com/abhisek/circlez/internal/render"
	"github.com/abhisek/circlez/internal/router"
	"github.com/abhisek/circlez/internal/screen"
	"github.com/abhisek/circlez/internal/screens/summary"
	"github.com/abhisek/circlez/internal/session"
	"github.com/abhisek/circlez/internal/store"
	"github.com/abhisek/circlez/internal/ui/components"
	"github.com/abhisek/circlez/internal/ui/layout"
)

// panelHeight is the number of lines below the canvas.
const panelHeight = 4

const storeTimeout = 5 * time.Second

// DrawScreen implements screen.Screen for a drawing session.
type DrawScreen struct {
	deps screen.Deps
	sess *session.Session

	canvas     *render.Canvas
	cols, rows int // canvas area in cells
	width      int

	handle session.Handle
	last   *session.Result

	tip        *coach.Tip
	tipLoading bool
	spinner    spinner.Model

	input     *components.FileInput
	status    string
	statusErr bool
}

var _ screen.Screen = (*DrawScreen)(nil)
var _ screen.KeyHintProvider = (*DrawScreen)(nil)
var _ screen.EscapeHandler = (*DrawScreen)(nil)

// New creates a drawing screen. best seeds the best score shown and
// compared against.
func New(deps screen.Deps, best int) *DrawScreen {
	return &DrawScreen{
		deps:    deps,
		sess:    session.New(best),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
}

// Session exposes the underlying session.
func (s *DrawScreen) Session() *session.Session { return s.sess }

func (s *DrawScreen) Init() tea.Cmd {
	return s.sessionEvent(store.SessionStart)
}

func (s *DrawScreen) Title() string {
	return "Draw a circle"
}

func (s *DrawScreen) HandlesEscape() bool { return true }

func (s *DrawScreen) KeyHints() []layout.KeyHint {
	if s.input != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "Mouse", Description: "Draw"},
		{Key: "C", Description: "Clear"},
		{Key: "E", Description: "Export"},
		{Key: "Esc", Description: "Finish"},
	}
}

func (s *DrawScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ResizeMsg:
		return s, s.resize(msg.Width, msg.Height)

	case tea.MouseClickMsg:
		return s.handlePress(msg.Mouse())
	case tea.MouseMotionMsg:
		return s.handleMotion(msg.Mouse())
	case tea.MouseReleaseMsg:
		return s.handleRelease()

	case attemptSavedMsg:
		return s.handleSaved(msg)

	case tipReadyMsg:
		return s.handleTip(msg)

	case exportDoneMsg:
		if msg.Err != nil {
			s.setStatus(fmt.Sprintf("Export failed: %v", msg.Err), true)
		} else {
			s.setStatus("Saved "+msg.Path, false)
		}
		return s, nil

	case sessionEventMsg:
		if msg.Err != nil {
			s.deps.Logger().Warn("record session event", "err", msg.Err)
		}
		return s, nil

	case spinner.TickMsg:
		if !s.tipLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.input != nil {
		var cmd tea.Cmd
		*s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DrawScreen) resize(width, height int) tea.Cmd {
	s.width = width
	s.cols = max(width, 1)
	s.rows = max(height-panelHeight, 1)

	w, h := s.deps.Render.PixelSize(s.cols, s.rows)
	if s.canvas == nil {
		s.canvas = render.NewCanvas(s.deps.Render, w, h)
		return nil
	}
	strokes := s.sess.History()
	if s.sess.Drawing() {
		strokes = append(strokes, s.sess.Active())
	}
	if err := s.canvas.Resize(w, h, strokes); err != nil {
		s.deps.Logger().Error("resize canvas", "err", err)
	}
	return nil
}

func (s *DrawScreen) inCanvas(m tea.Mouse) bool {
	return s.canvas != nil && m.X >= 0 && m.Y >= 0 && m.X < s.cols && m.Y < s.rows
}

func (s *DrawScreen) handlePress(m tea.Mouse) (screen.Screen, tea.Cmd) {
	if m.Button != tea.MouseLeft || s.input != nil || !s.inCanvas(m) {
		return s, nil
	}
	s.handle = s.sess.OnGestureStart(s.deps.Render.CellToPoint(m.X, m.Y))
	s.status = ""
	return s, nil
}

func (s *DrawScreen) handleMotion(m tea.Mouse) (screen.Screen, tea.Cmd) {
	if !s.sess.Drawing() {
		return s, nil
	}
	// Leaving the canvas ends the gesture like a release.
	if !s.inCanvas(m) {
		return s.handleRelease()
	}
	h, piece := s.sess.OnGestureMove(s.handle, s.deps.Render.CellToPoint(m.X, m.Y))
	s.handle = h
	if piece != nil {
		if err := s.canvas.Draw(*piece); err != nil {
			s.deps.Logger().Warn("draw segment", "err", err)
		}
	}
	return s, nil
}

func (s *DrawScreen) handleRelease() (screen.Screen, tea.Cmd) {
	if !s.sess.Drawing() {
		return s, nil
	}
	res := s.sess.OnGestureEnd(s.handle)
	s.handle = session.Handle{}
	s.last = &res
	s.tip = nil

	cmds := []tea.Cmd{
		s.saveAttempt(res),
		func() tea.Msg { return screen.AttemptMsg{Score: res.Score, Scored: res.Scored} },
		s.requestTip(res),
	}
	s.tipLoading = res.Scored && s.deps.Coach.Enabled()
	if s.tipLoading {
		cmds = append(cmds, s.spinner.Tick)
	}
	return s, tea.Batch(cmds...)
}

func (s *DrawScreen) handleSaved(msg attemptSavedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.deps.Logger().Warn("record attempt", "err", msg.Err)
		s.setStatus("Could not save attempt", true)
		return s, nil
	}
	if s.deps.Hub != nil && msg.Attempt != nil {
		s.deps.Hub.Publish(feed.FromAttempt(*msg.Attempt, s.deps.Source))
	}
	return s, nil
}

func (s *DrawScreen) handleTip(msg tipReadyMsg) (screen.Screen, tea.Cmd) {
	// A newer gesture already replaced the result this tip was for.
	if s.last == nil || msg.Attempt != s.last.Attempt {
		return s, nil
	}
	s.tipLoading = false
	if msg.Err != nil {
		s.deps.Logger().Warn("coach tip failed, using heuristic", "err", msg.Err)
	}
	tip := msg.Tip
	s.tip = &tip
	return s, nil
}

func (s *DrawScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.input != nil {
		switch msg.String() {
		case "esc":
			s.input = nil
			return s, nil
		case "enter":
			if !s.input.Validate() {
				return s, nil
			}
			path := s.input.Value()
			s.input = nil
			s.setStatus("Exporting…", false)
			return s, s.exportTo(path)
		}
		var cmd tea.Cmd
		*s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	switch msg.String() {
	case "c":
		s.sess.Clear()
		if s.canvas != nil {
			s.canvas.Clear()
		}
		s.setStatus("Canvas cleared", false)
		return s, nil

	case "e":
		if len(s.sess.History()) == 0 {
			s.setStatus("Draw something first", true)
			return s, nil
		}
		in := components.NewFileInput(
			fmt.Sprintf("circlez-%s.png", time.Now().Format("20060102-150405")), ".png", ".pdf")
		s.input = &in
		return s, in.Init()

	case "esc":
		sum := session.BuildSummary(s.sess)
		return s, tea.Batch(
			s.sessionEvent(store.SessionEnd),
			router.Replace(summary.New(sum)),
		)
	}
	return s, nil
}

func (s *DrawScreen) setStatus(text string, isErr bool) {
	s.status = text
	s.statusErr = isErr
}

func (s *DrawScreen) saveAttempt(res session.Result) tea.Cmd {
	data := AttemptData(s.sess.ID, res)
	repo := s.deps.Repo
	return func() tea.Msg {
		if repo == nil {
			return attemptSavedMsg{Attempt: &store.Attempt{
				AttemptEventData: data,
				ID:               uuid.New().String(),
				CreatedAt:        res.EndedAt,
			}}
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		a, err := repo.AppendAttempt(ctx, data)
		return attemptSavedMsg{Attempt: a, Err: err}
	}
}

func (s *DrawScreen) requestTip(res session.Result) tea.Cmd {
	c := s.deps.Coach
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		tip, err := c.Tip(ctx, res.Breakdown)
		return tipReadyMsg{Attempt: res.Attempt, Tip: tip, Err: err}
	}
}

func (s *DrawScreen) exportTo(path string) tea.Cmd {
	history := s.sess.History()
	cfg := s.deps.Render
	w, h := s.canvas.Size()
	return func() tea.Msg {
		return exportDoneMsg{Path: path, Err: export.File(path, history, cfg, w, h)}
	}
}

func (s *DrawScreen) sessionEvent(action string) tea.Cmd {
	repo := s.deps.Repo
	if repo == nil {
		return nil
	}
	data := store.SessionEventData{
		SessionID: s.sess.ID,
		Action:    action,
	}
	if action == store.SessionEnd {
		data.Attempts = s.sess.Attempts()
		data.Best = s.sess.Best()
		data.DurationSecs = int(time.Since(s.sess.StartedAt).Seconds())
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return sessionEventMsg{Err: repo.AppendSessionEvent(ctx, data)}
	}
}

// AttemptData converts a finished gesture into its stored form.
func AttemptData(sessionID string, res session.Result) store.AttemptEventData {
	b := res.Breakdown
	data := store.AttemptEventData{
		SessionID:       sessionID,
		Scored:          res.Scored,
		PointCount:      b.PointCount,
		Regularity:      b.Regularity,
		Closure:         b.Closure,
		PointScore:      b.PointScore,
		AvgRadius:       b.AvgRadius,
		StdDev:          b.StdDev,
		ClosureDistance: b.ClosureDistance,
		NewBest:         res.NewBest,
	}
	if res.Scored {
		data.Score = res.Score
		data.Grade = res.Grade.Label
	}
	return data
}
