package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vidyasagar/tpanel/internal/browser"
	"github.com/vidyasagar/tpanel/internal/nav"
)

var errBoom = errors.New("boom")

type fakeStore struct {
	history    nav.History
	lastActive string
	historyErr error
	sessionErr error
	saveErr    error
	saves      []nav.History
}

func (f *fakeStore) LastActive(context.Context) (string, error) {
	return f.lastActive, f.sessionErr
}

func (f *fakeStore) History(context.Context) (nav.History, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeStore) SaveHistory(_ context.Context, h nav.History) error {
	f.saves = append(f.saves, h)
	if f.saveErr != nil {
		return f.saveErr
	}
	f.history = h
	return nil
}

// fakeSurface keeps a plain URL stack and answers loads immediately.
type fakeSurface struct {
	stack   []string
	page    *browser.RenderedPage
	links   []browser.Link
	reloads int
	closed  bool
}

func (f *fakeSurface) loaded(url string) tea.Cmd {
	page := &browser.RenderedPage{Title: url, URL: url, StatusCode: 200, Content: "page " + url, Links: f.links}
	return func() tea.Msg {
		return browser.LoadedMsg{URL: url, Page: page, Status: 200}
	}
}

func (f *fakeSurface) Open(url string) tea.Cmd {
	f.stack = append(f.stack, url)
	return f.loaded(url)
}

func (f *fakeSurface) Reload() tea.Cmd {
	f.reloads++
	if len(f.stack) == 0 {
		return nil
	}
	return f.loaded(f.Current())
}

func (f *fakeSurface) CanGoBack() bool { return len(f.stack) > 1 }

func (f *fakeSurface) GoBack() (tea.Cmd, bool) {
	if !f.CanGoBack() {
		return nil, false
	}
	f.stack = f.stack[:len(f.stack)-1]
	return f.loaded(f.Current()), true
}

func (f *fakeSurface) GoForward() (tea.Cmd, bool) { return nil, false }

func (f *fakeSurface) Follow(n int) (tea.Cmd, bool) {
	for _, l := range f.links {
		if l.Index == n {
			return f.Open(l.URL), true
		}
	}
	return nil, false
}

func (f *fakeSurface) Apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case browser.LoadedMsg:
		f.page = msg.Page
		return true
	case browser.LoadErrorMsg:
		f.page = &browser.RenderedPage{Title: "Error", URL: msg.URL, Content: msg.Err.Error()}
		return true
	}
	return false
}

func (f *fakeSurface) Page() *browser.RenderedPage { return f.page }

func (f *fakeSurface) Current() string {
	if len(f.stack) == 0 {
		return ""
	}
	return f.stack[len(f.stack)-1]
}

func (f *fakeSurface) SetWidth(int) {}

func (f *fakeSurface) Close() { f.closed = true }

// collect runs cmd and returns every message it produces, flattening
// batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func navigations(msgs []tea.Msg) []string {
	var urls []string
	for _, msg := range msgs {
		if nm, ok := msg.(NavigateMsg); ok {
			urls = append(urls, nm.URL)
		}
	}
	return urls
}

func storageResults(msgs []tea.Msg) []StorageResultMsg {
	var out []StorageResultMsg
	for _, msg := range msgs {
		if r, ok := msg.(StorageResultMsg); ok {
			out = append(out, r)
		}
	}
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
