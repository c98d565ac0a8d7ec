package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/circlez/internal/router"
	"github.com/abhisek/circlez/internal/store"
)

func sampleAttempts() []store.Attempt {
	at := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	return []store.Attempt{
		{
			ID: "a2", Sequence: 2, CreatedAt: at.Add(time.Minute),
			AttemptEventData: store.AttemptEventData{
				Scored: true, Score: 91, Grade: "Perfect", Regularity: 95, Closure: 88,
				PointScore: 100, PointCount: 120, AvgRadius: 80, StdDev: 2, ClosureDistance: 9.6, NewBest: true,
			},
		},
		{
			ID: "a1", Sequence: 1, CreatedAt: at,
			AttemptEventData: store.AttemptEventData{PointCount: 4},
		},
	}
}

func loaded(t *testing.T) *HistoryScreen {
	t.Helper()
	s := New(nil)
	s.Update(historyLoadedMsg{Attempts: sampleAttempts()})
	return s
}

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestHistoryLoadingAndEmpty(t *testing.T) {
	s := New(nil)
	if !strings.Contains(s.View(80, 20), "Loading") {
		t.Error("expected loading text before data arrives")
	}

	msg := s.Init()()
	s.Update(msg)
	if !strings.Contains(s.View(80, 20), "No attempts yet") {
		t.Error("expected empty-state text without a repo")
	}
}

func TestHistoryLoadsFromStore(t *testing.T) {
	st, err := store.Open("file:history_screen?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	repo := st.EventRepo()
	if _, err := repo.AppendAttempt(context.Background(), store.AttemptEventData{
		SessionID: "s", Scored: true, Score: 77, Grade: "Good", PointCount: 90,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	s := New(repo)
	s.Update(s.Init()())
	if len(s.attempts) != 1 || s.attempts[0].Score != 77 {
		t.Fatalf("attempts = %+v", s.attempts)
	}
}

func TestHistoryNavigationAndExpand(t *testing.T) {
	s := loaded(t)

	view := s.View(100, 20)
	if !strings.Contains(view, "91") || !strings.Contains(view, "too short") {
		t.Errorf("rows missing from view:\n%s", view)
	}
	if strings.Contains(view, "regularity") {
		t.Error("details shown before expanding")
	}

	s.Update(key(tea.KeyEnter))
	if !strings.Contains(s.View(100, 20), "regularity  95.0") {
		t.Error("expanded details missing for the selected attempt")
	}

	s.Update(key(tea.KeyDown))
	s.Update(key(tea.KeyDown))
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1 (clamped)", s.selected)
	}
	s.Update(key(tea.KeyEnter))
	if !strings.Contains(s.View(100, 20), "only 4 points") {
		t.Error("expanded details missing for the unscored attempt")
	}

	s.Update(key(tea.KeyUp))
	s.Update(key(tea.KeyUp))
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
}

func TestHistoryScrollsToSelection(t *testing.T) {
	s := New(nil)
	var many []store.Attempt
	for i := range 30 {
		many = append(many, store.Attempt{ID: string(rune('a' + i)), AttemptEventData: store.AttemptEventData{PointCount: i}})
	}
	s.Update(historyLoadedMsg{Attempts: many})
	for range 25 {
		s.Update(key(tea.KeyDown))
	}
	view := s.View(100, 10)
	if got := strings.Count(view, "\n") + 1; got != 10 {
		t.Errorf("view has %d lines, want 10", got)
	}
	if !strings.Contains(view, "> ") {
		t.Error("selected row scrolled out of view")
	}
}

func TestHistoryEscPops(t *testing.T) {
	s := loaded(t)
	_, cmd := s.Update(key(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a command on esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc did not pop")
	}
}

func TestHistoryError(t *testing.T) {
	s := New(nil)
	s.Update(historyLoadedMsg{Err: context.DeadlineExceeded})
	if !strings.Contains(s.View(80, 20), "Error") {
		t.Error("error not shown")
	}
}
