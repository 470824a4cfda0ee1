package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidyasagar/tpanel/internal/browser"
	"github.com/vidyasagar/tpanel/internal/logging"
	"github.com/vidyasagar/tpanel/internal/nav"
	"github.com/vidyasagar/tpanel/internal/storage"
	"github.com/vidyasagar/tpanel/internal/ui"
)

// fakeSurface keeps a plain URL stack and answers loads immediately.
type fakeSurface struct {
	stack  []string
	page   *browser.RenderedPage
	closed bool
}

func (f *fakeSurface) loaded(url string) tea.Cmd {
	page := &browser.RenderedPage{Title: "Panel", URL: url, StatusCode: 200, Content: "page " + url}
	return func() tea.Msg { return browser.LoadedMsg{URL: url, Page: page, Status: 200} }
}

func (f *fakeSurface) Open(url string) tea.Cmd {
	f.stack = append(f.stack, url)
	return f.loaded(url)
}

func (f *fakeSurface) Reload() tea.Cmd { return f.loaded(f.Current()) }

func (f *fakeSurface) CanGoBack() bool { return len(f.stack) > 1 }

func (f *fakeSurface) GoBack() (tea.Cmd, bool) {
	if !f.CanGoBack() {
		return nil, false
	}
	f.stack = f.stack[:len(f.stack)-1]
	return f.loaded(f.Current()), true
}

func (f *fakeSurface) GoForward() (tea.Cmd, bool)  { return nil, false }
func (f *fakeSurface) Follow(int) (tea.Cmd, bool)  { return nil, false }
func (f *fakeSurface) Page() *browser.RenderedPage { return f.page }
func (f *fakeSurface) SetWidth(int)                {}
func (f *fakeSurface) Close()                      { f.closed = true }

func (f *fakeSurface) Apply(msg tea.Msg) bool {
	if lm, ok := msg.(browser.LoadedMsg); ok {
		f.page = lm.Page
		return true
	}
	return false
}

func (f *fakeSurface) Current() string {
	if len(f.stack) == 0 {
		return ""
	}
	return f.stack[len(f.stack)-1]
}

type surfaces struct {
	made []*fakeSurface
}

func (s *surfaces) factory() ui.Surface {
	fs := &fakeSurface{}
	s.made = append(s.made, fs)
	return fs
}

func (s *surfaces) last() *fakeSurface {
	return s.made[len(s.made)-1]
}

// failingStore fails every read and write.
type failingStore struct{}

var errUnavailable = errors.New("storage unavailable")

func (failingStore) LastActive(context.Context) (string, error)     { return "", errUnavailable }
func (failingStore) History(context.Context) (nav.History, error)   { return nil, errUnavailable }
func (failingStore) SaveHistory(context.Context, nav.History) error { return errUnavailable }
func (failingStore) SaveLastActive(context.Context, string) error   { return errUnavailable }
func (failingStore) ClearLastActive(context.Context) error          { return errUnavailable }

var cmdType = reflect.TypeOf((*tea.Cmd)(nil)).Elem()

// cmdList unpacks batch and sequence messages.
func cmdList(msg tea.Msg) ([]tea.Cmd, bool) {
	v := reflect.ValueOf(msg)
	if !v.IsValid() || v.Kind() != reflect.Slice || v.Type().Elem() != cmdType {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i], _ = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}

// drain runs cmd and every command its messages lead to, in order, and
// reports whether the program asked to quit. Widget ticks are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) (Model, bool) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	quit := false
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("drain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if cmds, ok := cmdList(msg); ok {
			queue = append(queue, cmds...)
			continue
		}
		if msg == nil {
			continue
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			quit = true
			continue
		}
		if strings.HasPrefix(reflect.TypeOf(msg).PkgPath(), "github.com/charmbracelet/bubbles") {
			continue
		}
		next, out := m.Update(msg)
		m = next.(Model)
		queue = append(queue, out)
	}
	return m, quit
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, bool) {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

func typeURL(t *testing.T, m Model, raw string) Model {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(raw)})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func newSession(t *testing.T, dir string) *storage.Session {
	t.Helper()
	fs, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return storage.NewSession(fs)
}

func start(t *testing.T, store SessionStore, s *surfaces, startURL string) Model {
	t.Helper()
	m := New(store, s.factory, logging.Discard(), startURL)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = drain(t, m, m.Init())
	return m
}

func TestStartsOnInputWithoutSession(t *testing.T) {
	m := start(t, newSession(t, t.TempDir()), &surfaces{}, "")
	if got := m.State(); got != nav.Initial() {
		t.Errorf("state = %+v, want input", got)
	}
}

func TestNavigatePersistsAndRestores(t *testing.T) {
	dir := t.TempDir()
	s := &surfaces{}
	m := start(t, newSession(t, dir), s, "")

	m, _ = send(t, m, ui.NavigateMsg{URL: "http://panel.local"})

	want := nav.State{Screen: nav.ScreenBrowser, URL: "http://panel.local"}
	if m.State() != want {
		t.Fatalf("state = %+v, want %+v", m.State(), want)
	}
	if got := s.last().Current(); got != "http://panel.local" {
		t.Errorf("surface opened %q", got)
	}

	last, err := newSession(t, dir).LastActive(context.Background())
	if err != nil || last != "http://panel.local" {
		t.Fatalf("LastActive = %q, %v", last, err)
	}

	// Restart on the same store.
	m = start(t, newSession(t, dir), &surfaces{}, "")
	if m.State() != want {
		t.Errorf("state after restart = %+v, want %+v", m.State(), want)
	}
}

func TestGoBackClearsSession(t *testing.T) {
	dir := t.TempDir()
	s := &surfaces{}
	m := start(t, newSession(t, dir), s, "")

	m, _ = send(t, m, ui.NavigateMsg{URL: "http://panel.local"})
	m, _ = send(t, m, ui.BackMsg{})

	if m.State() != nav.Initial() {
		t.Fatalf("state = %+v, want input", m.State())
	}
	if !s.last().closed {
		t.Error("surface not closed when leaving the browser")
	}
	last, err := newSession(t, dir).LastActive(context.Background())
	if err != nil || last != "" {
		t.Fatalf("LastActive = %q, %v; want empty", last, err)
	}

	m = start(t, newSession(t, dir), &surfaces{}, "")
	if m.State() != nav.Initial() {
		t.Errorf("state after restart = %+v, want input", m.State())
	}
}

func TestSubmitScenario(t *testing.T) {
	dir := t.TempDir()
	m := start(t, newSession(t, dir), &surfaces{}, "")

	for _, raw := range []string{"a.com", "b.com", "a.com"} {
		m = typeURL(t, m, raw)
		if m.State().Screen != nav.ScreenBrowser {
			t.Fatalf("submit %q did not open the browser", raw)
		}
		m, _ = send(t, m, ui.BackMsg{})
	}

	h, err := newSession(t, dir).History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	want := nav.History{"http://a.com", "http://b.com"}
	if !reflect.DeepEqual(h, want) {
		t.Errorf("history = %v, want %v", h, want)
	}
}

func TestBlankSubmitStaysOnInput(t *testing.T) {
	dir := t.TempDir()
	m := start(t, newSession(t, dir), &surfaces{}, "")

	m = typeURL(t, m, "   ")

	if m.State() != nav.Initial() {
		t.Errorf("state = %+v, want input", m.State())
	}
	h, _ := newSession(t, dir).History(context.Background())
	if len(h) != 0 {
		t.Errorf("history = %v, want empty", h)
	}
}

func TestHardwareBack(t *testing.T) {
	dir := t.TempDir()
	s := &surfaces{}
	m := start(t, newSession(t, dir), s, "")
	esc := tea.KeyMsg{Type: tea.KeyEsc}

	m, _ = send(t, m, ui.NavigateMsg{URL: "http://panel"})
	m, _ = drain(t, m, s.last().Open("http://panel/queue"))

	m, quit := send(t, m, esc)
	if quit || m.State().Screen != nav.ScreenBrowser {
		t.Fatalf("esc with surface history left the browser (quit=%v, state=%+v)", quit, m.State())
	}
	if got := s.last().Current(); got != "http://panel" {
		t.Errorf("surface at %q, want http://panel", got)
	}

	m, quit = send(t, m, esc)
	if quit || m.State() != nav.Initial() {
		t.Fatalf("esc without surface history: quit=%v, state=%+v", quit, m.State())
	}

	_, quit = send(t, m, esc)
	if !quit {
		t.Error("esc on the input screen did not quit")
	}
}

func TestStartURLOverridesRestore(t *testing.T) {
	dir := t.TempDir()
	session := newSession(t, dir)
	if err := session.SaveLastActive(context.Background(), "http://old"); err != nil {
		t.Fatal(err)
	}

	m := start(t, session, &surfaces{}, "new.local:9000")

	want := nav.State{Screen: nav.ScreenBrowser, URL: "http://new.local:9000"}
	if m.State() != want {
		t.Fatalf("state = %+v, want %+v", m.State(), want)
	}
	h, _ := session.History(context.Background())
	if !reflect.DeepEqual(h, nav.History{"http://new.local:9000"}) {
		t.Errorf("history = %v", h)
	}
}

func TestStorageFailuresDegrade(t *testing.T) {
	var buf bytes.Buffer
	s := &surfaces{}
	m := New(failingStore{}, s.factory, logging.NewWithWriter(&buf, slog.LevelDebug), "")
	m, _ = drain(t, m, m.Init())

	if m.State() != nav.Initial() {
		t.Fatalf("state = %+v, want input", m.State())
	}

	m = typeURL(t, m, "panel")
	if m.State().URL != "http://panel" {
		t.Errorf("state = %+v, want browser on http://panel", m.State())
	}
	m, _ = send(t, m, ui.BackMsg{})
	if m.State() != nav.Initial() {
		t.Errorf("state = %+v, want input", m.State())
	}

	logs := buf.String()
	for _, want := range []string{"restoring session", "save history", "save session", "clear session"} {
		if !strings.Contains(logs, want) {
			t.Errorf("log missing %q:\n%s", want, logs)
		}
	}
}

func TestWithoutStore(t *testing.T) {
	m := start(t, nil, &surfaces{}, "")
	m = typeURL(t, m, "panel")
	if m.State().URL != "http://panel" {
		t.Errorf("state = %+v", m.State())
	}
}

func TestRealSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Queue Panel</title></head><body><p>Now serving 42</p></body></html>`)
	}))
	defer srv.Close()

	newSurface := func() ui.Surface { return browser.NewSurface(browser.DefaultOptions()) }
	m := New(newSession(t, t.TempDir()), newSurface, logging.Discard(), "")
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = drain(t, m, m.Init())

	m, _ = send(t, m, ui.NavigateMsg{URL: srv.URL})

	if m.State().URL != srv.URL {
		t.Fatalf("state = %+v", m.State())
	}
	if v := m.View(); !strings.Contains(v, "Queue Panel") {
		t.Errorf("browser view missing the page title:\n%s", v)
	}
}
