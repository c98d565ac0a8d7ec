package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/circlez/internal/screen"
)

// stubScreen records what the router did to it.
type stubScreen struct {
	title   string
	initRan bool
	resumed int
	seen    []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(ResumedMsg); ok {
		s.resumed++
	}
	s.seen = append(s.seen, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPushPop(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	draw := &stubScreen{title: "draw"}
	r.Push(draw)
	if r.Depth() != 2 || r.Active() != screen.Screen(draw) {
		t.Fatalf("after push: depth %d, active %q", r.Depth(), r.Active().Title())
	}
	if !draw.initRan {
		t.Error("Init() not run on pushed screen")
	}

	r.Pop()
	if r.Depth() != 1 || r.Active().Title() != "home" {
		t.Errorf("after pop: depth %d, active %q", r.Depth(), r.Active().Title())
	}
	if home.resumed != 1 {
		t.Errorf("home resumed %d times, want 1", home.resumed)
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	if cmd := r.Pop(); cmd != nil {
		t.Error("Pop at bottom returned a command")
	}
	if r.Depth() != 1 {
		t.Errorf("depth = %d, want 1", r.Depth())
	}
	if home.resumed != 0 {
		t.Error("bottom screen resumed without a pop")
	}
}

func TestReplaceKeepsDepth(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "draw"})

	summary := &stubScreen{title: "summary"}
	r.Replace(summary)

	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	if r.Active().Title() != "summary" {
		t.Errorf("active = %q, want summary", r.Active().Title())
	}
	if !summary.initRan {
		t.Error("Init() not run on replacement")
	}
}

func TestNavigationMessages(t *testing.T) {
	home := &stubScreen{title: "home"}
	r := New(home)

	draw := &stubScreen{title: "draw"}
	r.Update(PushScreenMsg{Screen: draw})
	if r.Active().Title() != "draw" {
		t.Fatalf("PushScreenMsg: active = %q", r.Active().Title())
	}

	summary := &stubScreen{title: "summary"}
	r.Update(ReplaceScreenMsg{Screen: summary})
	if r.Active().Title() != "summary" || r.Depth() != 2 {
		t.Fatalf("ReplaceScreenMsg: active = %q depth %d", r.Active().Title(), r.Depth())
	}

	r.Update(PopScreenMsg{})
	if r.Active().Title() != "home" {
		t.Errorf("PopScreenMsg: active = %q", r.Active().Title())
	}
	if len(draw.seen) != 0 {
		t.Error("navigation messages leaked into a screen")
	}
}

func TestCommandHelpers(t *testing.T) {
	s := &stubScreen{title: "x"}
	if msg, ok := Push(s)().(PushScreenMsg); !ok || msg.Screen != screen.Screen(s) {
		t.Errorf("Push() produced %#v", msg)
	}
	if msg, ok := Replace(s)().(ReplaceScreenMsg); !ok || msg.Screen != screen.Screen(s) {
		t.Errorf("Replace() produced %#v", msg)
	}
	if _, ok := Pop().(PopScreenMsg); !ok {
		t.Error("Pop() did not produce PopScreenMsg")
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	draw := &stubScreen{title: "draw"}
	r := New(home)
	r.Push(draw)

	type ping struct{}
	r.Update(ping{})

	if len(draw.seen) != 1 {
		t.Errorf("active screen saw %d messages, want 1", len(draw.seen))
	}
	if len(home.seen) != 0 {
		t.Error("inactive screen received a message")
	}
}
