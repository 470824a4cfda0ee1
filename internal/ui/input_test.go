package ui

import (
	"errors"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidyasagar/tpanel/internal/logging"
	"github.com/vidyasagar/tpanel/internal/nav"
)

func loadedInput(t *testing.T, store *fakeStore) InputScreen {
	t.Helper()
	s := NewInputScreen(store, logging.Discard())
	msgs := collect(s.Load())
	if len(msgs) != 1 {
		t.Fatalf("Load produced %d messages, want 1", len(msgs))
	}
	s, _ = s.Update(msgs[0])
	return s
}

func TestSubmitBlankIsNoop(t *testing.T) {
	store := &fakeStore{}
	s := loadedInput(t, store)

	for _, raw := range []string{"", "   ", "\t\n"} {
		if cmd := s.Submit(raw); cmd != nil {
			t.Errorf("Submit(%q) returned a command", raw)
		}
	}
	if len(s.History()) != 0 {
		t.Errorf("history = %v, want empty", s.History())
	}
	if len(store.saves) != 0 {
		t.Errorf("blank submit saved history %d times", len(store.saves))
	}
}

func TestSubmitNormalizesPersistsAndNavigates(t *testing.T) {
	store := &fakeStore{}
	s := loadedInput(t, store)

	msgs := collect(s.Submit("192.168.1.100:8080"))

	want := "http://192.168.1.100:8080"
	if got := navigations(msgs); !reflect.DeepEqual(got, []string{want}) {
		t.Fatalf("navigations = %v, want [%s]", got, want)
	}
	results := storageResults(msgs)
	if len(results) != 1 || results[0].Op != "save history" || results[0].Err != nil {
		t.Fatalf("storage results = %+v", results)
	}
	if !reflect.DeepEqual(store.history, nav.History{want}) {
		t.Errorf("stored history = %v", store.history)
	}
}

func TestSubmitKeepsExistingScheme(t *testing.T) {
	s := loadedInput(t, &fakeStore{})
	msgs := collect(s.Submit("https://panel.local"))
	if got := navigations(msgs); !reflect.DeepEqual(got, []string{"https://panel.local"}) {
		t.Errorf("navigations = %v", got)
	}
}

func TestSubmitDedupesMostRecentFirst(t *testing.T) {
	store := &fakeStore{}
	s := loadedInput(t, store)

	for _, raw := range []string{"a.com", "b.com", "a.com"} {
		collect(s.Submit(raw))
	}

	want := nav.History{"http://a.com", "http://b.com"}
	if !reflect.DeepEqual(s.History(), want) {
		t.Errorf("history = %v, want %v", s.History(), want)
	}
	if !reflect.DeepEqual(store.history, want) {
		t.Errorf("stored history = %v, want %v", store.history, want)
	}
}

func TestSubmitPersistFailureStillNavigates(t *testing.T) {
	store := &fakeStore{saveErr: errBoom}
	s := loadedInput(t, store)

	msgs := collect(s.Submit("a.com"))

	if got := navigations(msgs); len(got) != 1 {
		t.Fatalf("navigations = %v, want one", got)
	}
	results := storageResults(msgs)
	if len(results) != 1 || !errors.Is(results[0].Err, errBoom) {
		t.Errorf("storage results = %+v, want the save error", results)
	}
}

func TestSubmitWithoutStore(t *testing.T) {
	s := NewInputScreen(nil, logging.Discard())
	if cmd := s.Load(); cmd != nil {
		t.Error("Load without a store returned a command")
	}
	msgs := collect(s.Submit("a.com"))
	if got := navigations(msgs); !reflect.DeepEqual(got, []string{"http://a.com"}) {
		t.Errorf("navigations = %v", got)
	}
}

func TestSelectFromHistoryDoesNotSave(t *testing.T) {
	store := &fakeStore{history: nav.History{"http://b.com", "http://a.com"}}
	s := loadedInput(t, store)

	msgs := collect(s.SelectFromHistory("http://a.com"))

	if got := navigations(msgs); !reflect.DeepEqual(got, []string{"http://a.com"}) {
		t.Errorf("navigations = %v", got)
	}
	if len(store.saves) != 0 {
		t.Errorf("select saved history %d times", len(store.saves))
	}
	if !reflect.DeepEqual(s.History(), store.history) {
		t.Errorf("history reordered to %v", s.History())
	}
}

func TestEnterOnSelectedEntry(t *testing.T) {
	store := &fakeStore{history: nav.History{"http://b.com", "http://a.com"}}
	s := loadedInput(t, store)

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyDown})
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyDown})
	s, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msgs := collect(cmd)
	if got := navigations(msgs); !reflect.DeepEqual(got, []string{"http://a.com"}) {
		t.Errorf("navigations = %v", got)
	}
	if len(store.saves) != 0 {
		t.Errorf("selection saved history %d times", len(store.saves))
	}
}

func TestTypingThenEnterSubmits(t *testing.T) {
	store := &fakeStore{}
	s := loadedInput(t, store)

	s, _ = s.Update(keyRunes("10.0.0.2"))
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msgs := collect(cmd)
	if got := navigations(msgs); !reflect.DeepEqual(got, []string{"http://10.0.0.2"}) {
		t.Errorf("navigations = %v", got)
	}
	if len(store.saves) != 1 {
		t.Errorf("saves = %d, want 1", len(store.saves))
	}
}

func TestResumeLastSession(t *testing.T) {
	store := &fakeStore{lastActive: "http://panel.local:8080"}
	s := loadedInput(t, store)

	if s.LastActive() != "http://panel.local:8080" {
		t.Fatalf("LastActive = %q", s.LastActive())
	}

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	msgs := collect(cmd)
	if got := navigations(msgs); !reflect.DeepEqual(got, []string{"http://panel.local:8080"}) {
		t.Errorf("navigations = %v", got)
	}
	if len(store.saves) != 0 {
		t.Errorf("resume saved history")
	}
}

func TestResumeWithoutSession(t *testing.T) {
	s := loadedInput(t, &fakeStore{})
	if cmd := s.ResumeLastSession(); cmd != nil {
		t.Error("ResumeLastSession without a session returned a command")
	}
}

func TestLoadErrorsDegrade(t *testing.T) {
	store := &fakeStore{
		historyErr: errBoom,
		lastActive: "http://x",
	}
	s := loadedInput(t, store)

	if len(s.History()) != 0 {
		t.Errorf("history = %v, want empty after load error", s.History())
	}
	if s.LastActive() != "http://x" {
		t.Errorf("LastActive = %q, want http://x", s.LastActive())
	}

	store = &fakeStore{sessionErr: errBoom, history: nav.History{"http://a"}}
	s = loadedInput(t, store)
	if s.LastActive() != "" {
		t.Errorf("LastActive = %q, want empty after read error", s.LastActive())
	}
	if len(s.History()) != 1 {
		t.Errorf("history = %v", s.History())
	}
}

func TestClearHistory(t *testing.T) {
	store := &fakeStore{history: nav.History{"http://a", "http://b"}}
	s := loadedInput(t, store)

	s, cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	results := storageResults(collect(cmd))
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("storage results = %+v", results)
	}
	if len(s.History()) != 0 || len(store.history) != 0 {
		t.Errorf("history not cleared: screen %v, store %v", s.History(), store.history)
	}
}

func TestInputViewShowsSessionCard(t *testing.T) {
	s := loadedInput(t, &fakeStore{lastActive: "http://panel"})
	s.SetSize(100, 40)
	if v := s.View(); !containsAll(v, "Active session", "http://panel", "Example: 192.168.1.100:8080") {
		t.Errorf("view missing session card:\n%s", v)
	}

	s = loadedInput(t, &fakeStore{})
	s.SetSize(100, 40)
	if v := s.View(); containsAll(v, "Active session") {
		t.Errorf("view shows a session card without a session:\n%s", v)
	}
}
