package draw

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/circlez/internal/coach"
	"github.com/abhisek/circlez/internal/feed"
	"github.com/abhisek/circlez/internal/llm"
	"github.com/abhisek/circlez/internal/render"
	"github.com/abhisek/circlez/internal/screen"
	"github.com/abhisek/circlez/internal/session"
	"github.com/abhisek/circlez/internal/store"
)

func newScreen(t *testing.T, deps screen.Deps) *DrawScreen {
	t.Helper()
	deps.Render = render.DefaultConfig()
	s := New(deps, 0)
	s.Update(screen.ResizeMsg{Width: 80, Height: 20})
	return s
}

// drawCircle drags the mouse around a circle centred on the canvas and
// returns the command produced by the release.
func drawCircle(s *DrawScreen) tea.Cmd {
	const n = 120
	// One cell is twice as tall as it is wide, so the radius in rows is
	// half the radius in columns.
	cx, cy, rx, ry := 40.0, 8.0, 14.0, 7.0
	at := func(i int) tea.Mouse {
		a := 2 * math.Pi * float64(i) / n
		return tea.Mouse{
			X:      int(math.Round(cx + rx*math.Cos(a))),
			Y:      int(math.Round(cy + ry*math.Sin(a))),
			Button: tea.MouseLeft,
		}
	}
	s.Update(tea.MouseClickMsg(at(0)))
	for i := 1; i <= n; i++ {
		s.Update(tea.MouseMotionMsg(at(i)))
	}
	_, cmd := s.Update(tea.MouseReleaseMsg(at(n)))
	return cmd
}

// run executes cmd, flattening batches, and feeds every resulting message
// back into the screen. It returns the messages it saw.
func run(s *DrawScreen, cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(s, c)...)
		}
		return out
	}
	switch msg.(type) {
	case attemptSavedMsg, tipReadyMsg, exportDoneMsg, sessionEventMsg:
		s.Update(msg)
	}
	return []tea.Msg{msg}
}

func TestResizeCreatesCanvas(t *testing.T) {
	s := newScreen(t, screen.Deps{})
	if s.canvas == nil {
		t.Fatal("canvas not created")
	}
	if s.cols != 80 || s.rows != 20-panelHeight {
		t.Errorf("canvas cells = %dx%d, want 80x%d", s.cols, s.rows, 20-panelHeight)
	}
	w, h := s.canvas.Size()
	if w != 640 || h != (20-panelHeight)*16 {
		t.Errorf("canvas pixels = %dx%d", w, h)
	}

	s.Update(screen.ResizeMsg{Width: 100, Height: 30})
	if w, _ := s.canvas.Size(); w != 800 {
		t.Errorf("after resize width = %d, want 800", w)
	}
}

func TestGestureScoresAndPublishes(t *testing.T) {
	hub := feed.NewHub()
	sub := hub.Subscribe()
	s := newScreen(t, screen.Deps{Hub: hub, Source: "test"})

	msgs := run(s, drawCircle(s))

	if s.last == nil || !s.last.Scored {
		t.Fatalf("last result = %+v, want scored", s.last)
	}
	if s.last.Score < 60 {
		t.Errorf("score = %d, want at least 60 for a clean circle", s.last.Score)
	}
	if !s.last.NewBest || s.sess.Best() != s.last.Score {
		t.Error("first scored attempt should set the best")
	}

	var sawAttempt bool
	for _, m := range msgs {
		if am, ok := m.(screen.AttemptMsg); ok {
			sawAttempt = am.Scored && am.Score == s.last.Score
		}
	}
	if !sawAttempt {
		t.Error("no AttemptMsg for the header")
	}

	select {
	case ev := <-sub.C:
		if ev.Score != s.last.Score || ev.Source != "test" || ev.ID == "" {
			t.Errorf("published %+v", ev)
		}
	default:
		t.Error("attempt not published to the hub")
	}

	if s.tip == nil || s.tip.Source != coach.SourceHeuristic {
		t.Errorf("tip = %+v, want heuristic tip without a model", s.tip)
	}
	if !strings.Contains(s.View(80, 20), "Score") {
		t.Error("result panel missing from view")
	}
}

func TestGestureRecordedInStore(t *testing.T) {
	st, err := store.Open("file:draw_screen_store?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	repo := st.EventRepo()

	s := newScreen(t, screen.Deps{Repo: repo})
	run(s, s.Init())
	run(s, drawCircle(s))

	got, err := repo.RecentAttempts(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("stored %d attempts, want 1", len(got))
	}
	if got[0].SessionID != s.sess.ID || got[0].Score != s.last.Score || got[0].Grade != s.last.Grade.Label {
		t.Errorf("stored %+v", got[0])
	}
	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Sessions != 1 {
		t.Errorf("sessions = %d, want 1", stats.Sessions)
	}
}

func TestLeavingCanvasEndsGesture(t *testing.T) {
	s := newScreen(t, screen.Deps{})
	s.Update(tea.MouseClickMsg{X: 10, Y: 5, Button: tea.MouseLeft})
	s.Update(tea.MouseMotionMsg{X: 11, Y: 5, Button: tea.MouseLeft})
	if !s.sess.Drawing() {
		t.Fatal("gesture not started")
	}

	// Into the result panel.
	s.Update(tea.MouseMotionMsg{X: 11, Y: s.rows + 1, Button: tea.MouseLeft})
	if s.sess.Drawing() {
		t.Error("gesture still active after leaving the canvas")
	}
	if s.last == nil || s.last.Scored {
		t.Errorf("last = %+v, want an unscored short stroke", s.last)
	}

	// Further motion and a late release are ignored.
	s.Update(tea.MouseMotionMsg{X: 12, Y: 5, Button: tea.MouseLeft})
	s.Update(tea.MouseReleaseMsg{X: 12, Y: 5})
	if s.sess.Attempts() != 1 {
		t.Errorf("attempts = %d, want 1", s.sess.Attempts())
	}
}

func TestResizeKeepsStrokeInProgress(t *testing.T) {
	s := newScreen(t, screen.Deps{})
	s.Update(tea.MouseClickMsg{X: 10, Y: 5, Button: tea.MouseLeft})
	s.Update(tea.MouseMotionMsg{X: 30, Y: 5, Button: tea.MouseLeft})
	s.Update(tea.MouseMotionMsg{X: 30, Y: 10, Button: tea.MouseLeft})

	s.Update(screen.ResizeMsg{Width: 100, Height: 30})
	if !s.sess.Drawing() {
		t.Fatal("resize ended the gesture")
	}

	a, b := s.deps.Render.CellToPoint(10, 5), s.deps.Render.CellToPoint(30, 5)
	mid := a.Mid(b)
	img := s.canvas.Image()
	bg := img.At(0, 0)
	if img.At(int(mid.X), int(mid.Y)) == bg {
		t.Error("segments of the active stroke were lost on resize")
	}
}

func TestIgnoresOtherButtonsAndOutside(t *testing.T) {
	s := newScreen(t, screen.Deps{})
	s.Update(tea.MouseClickMsg{X: 10, Y: 5, Button: tea.MouseRight})
	s.Update(tea.MouseClickMsg{X: 10, Y: s.rows + 2, Button: tea.MouseLeft})
	if s.sess.Drawing() {
		t.Error("gesture started from a right click or outside the canvas")
	}
}

func TestStaleTipIgnored(t *testing.T) {
	s := newScreen(t, screen.Deps{})
	s.last = &session.Result{Attempt: 2}
	s.Update(tipReadyMsg{Attempt: 1, Tip: coach.Tip{Headline: "old"}})
	if s.tip != nil {
		t.Error("tip for an earlier attempt was shown")
	}
}

func TestCoachTip(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"headline":"Close the loop","advice":"Finish where you started.","focus":"closure"}`),
	})
	s := newScreen(t, screen.Deps{Coach: coach.New(mock, coach.DefaultConfig())})

	cmd := drawCircle(s)
	if !s.tipLoading {
		t.Error("spinner not shown while the coach works")
	}
	run(s, cmd)
	if s.tipLoading {
		t.Error("still loading after the tip arrived")
	}
	if s.tip == nil || s.tip.Headline != "Close the loop" {
		t.Errorf("tip = %+v", s.tip)
	}
}

func TestClearKeepsScores(t *testing.T) {
	s := newScreen(t, screen.Deps{})
	run(s, drawCircle(s))
	best := s.sess.Best()

	s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	if len(s.sess.History()) != 0 {
		t.Error("history not cleared")
	}
	if s.sess.Best() != best {
		t.Error("clear changed the best score")
	}
}

func TestExportFlow(t *testing.T) {
	s := newScreen(t, screen.Deps{})

	s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	if s.input != nil {
		t.Fatal("export prompt opened with nothing drawn")
	}

	run(s, drawCircle(s))
	s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	if s.input == nil {
		t.Fatal("export prompt not opened")
	}

	s.input.Model.SetValue("drawing.gif")
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.input == nil {
		t.Fatal("invalid extension accepted")
	}

	path := filepath.Join(t.TempDir(), "drawing.pdf")
	s.input.Model.SetValue(path)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.input != nil {
		t.Fatal("prompt still open after a valid name")
	}
	run(s, cmd)

	if s.statusErr {
		t.Fatalf("export failed: %s", s.status)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("exported file missing or empty: %v", err)
	}
}

func TestExportCancel(t *testing.T) {
	s := newScreen(t, screen.Deps{})
	run(s, drawCircle(s))
	s.Update(tea.KeyPressMsg{Code: 'e', Text: "e"})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.input != nil {
		t.Error("esc did not close the prompt")
	}
	if len(s.KeyHints()) != 4 {
		t.Error("drawing hints not restored")
	}
}

func TestEscEndsSession(t *testing.T) {
	s := newScreen(t, screen.Deps{})
	if !s.HandlesEscape() {
		t.Fatal("draw screen must handle esc")
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc produced no command")
	}
	done := make(chan struct{})
	go func() {
		run(s, cmd)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("esc command blocked")
	}
}

func TestAttemptData(t *testing.T) {
	s := newScreen(t, screen.Deps{})
	run(s, drawCircle(s))

	data := AttemptData("sid", *s.last)
	if data.SessionID != "sid" || !data.Scored || data.Score != s.last.Score {
		t.Errorf("data = %+v", data)
	}
	if data.Grade != s.last.Grade.Label || data.PointCount != s.last.Breakdown.PointCount {
		t.Errorf("data = %+v", data)
	}

	short := AttemptData("sid", session.Result{Breakdown: s.last.Breakdown, Scored: false})
	if short.Score != 0 || short.Grade != "" {
		t.Errorf("unscored data carries a score: %+v", short)
	}
}
