// Package app is the navigation controller: it owns the active URL, decides
// which screen is shown and carries out the session side effects of each
// transition.
package app

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/vidyasagar/tpanel/internal/nav"
	"github.com/vidyasagar/tpanel/internal/ui"
)

// SessionStore is the persistence the controller and its screens use.
type SessionStore interface {
	ui.HistoryStore
	SaveLastActive(ctx context.Context, url string) error
	ClearLastActive(ctx context.Context) error
}

// SurfaceFactory creates the browser surface for a new browser session.
type SurfaceFactory func() ui.Surface

// Model is the top-level bubbletea model for tpanel.
type Model struct {
	state      nav.State
	store      SessionStore // nil when storage could not be opened
	newSurface SurfaceFactory
	logger     *slog.Logger
	keys       KeyMap

	input     ui.InputScreen
	browser   ui.BrowserScreen
	sessionID string

	startURL string
	width    int
	height   int
}

// restoreMsg carries the last session read at startup.
type restoreMsg struct {
	url string
	err error
}

// New creates the controller. store may be nil, in which case nothing is
// remembered between runs. A non-empty startURL is opened instead of the
// last session.
func New(store SessionStore, newSurface SurfaceFactory, logger *slog.Logger, startURL string) Model {
	return Model{
		state:      nav.Initial(),
		store:      store,
		newSurface: newSurface,
		logger:     logger,
		keys:       DefaultKeyMap(),
		input:      ui.NewInputScreen(store, logger),
		startURL:   startURL,
	}
}

// State returns the current navigation state.
func (m Model) State() nav.State { return m.state }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.startURL != "" {
		return tea.Batch(m.input.Init(), m.openStart(m.startURL))
	}
	return tea.Batch(m.input.Init(), m.restore())
}

func (m Model) restore() tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		url, err := store.LastActive(context.Background())
		return restoreMsg{url: url, err: err}
	}
}

// openStart records a command-line URL in the history like a submit and
// opens it.
func (m Model) openStart(raw string) tea.Cmd {
	url, ok := nav.Normalize(raw)
	if !ok {
		return nil
	}
	store := m.store
	if store == nil {
		return func() tea.Msg { return ui.NavigateMsg{URL: url} }
	}
	logger := m.logger
	return func() tea.Msg {
		ctx := context.Background()
		h, err := store.History(ctx)
		if err != nil {
			logger.Warn("loading history", "err", err)
		}
		if err := store.SaveHistory(ctx, h.Push(url)); err != nil {
			logger.Warn("storage write failed", "op", "save history", "err", err)
		}
		return ui.NavigateMsg{URL: url}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetSize(msg.Width, msg.Height)
		if m.state.Screen == nav.ScreenBrowser {
			m.browser.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case restoreMsg:
		if msg.err != nil {
			m.logger.Warn("restoring session", "err", msg.err)
			return m, nil
		}
		if msg.url == "" || m.state.Screen != nav.ScreenInput {
			return m, nil
		}
		m.logger.Info("restoring session", "url", msg.url)
		return m.navigateTo(msg.url)

	case ui.NavigateMsg:
		return m.navigateTo(msg.URL)

	case ui.BackMsg:
		return m.goBack()

	case ui.StorageResultMsg:
		if msg.Err != nil {
			m.logger.Warn("storage write failed", "op", msg.Op, "err", msg.Err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateScreen(msg)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.HardwareBack) {
		if m.state.Screen == nav.ScreenInput {
			return m, tea.Quit
		}
		if !m.browser.Capturing() {
			cmd := m.browser.Back()
			return m, cmd
		}
	}

	return m.updateScreen(msg)
}

func (m Model) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.state.Screen == nav.ScreenBrowser {
		m.browser, cmd = m.browser.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// navigateTo shows url in a fresh browser session and persists it as the
// last session.
func (m Model) navigateTo(url string) (tea.Model, tea.Cmd) {
	next, intents := nav.Navigate(m.state, url)
	if len(intents) == 0 {
		return m, nil
	}

	if m.state.Screen == nav.ScreenBrowser {
		m.browser.Close()
	}
	m.state = next
	m.sessionID = uuid.NewString()
	logger := m.logger.With("session", m.sessionID)
	logger.Info("browser session started", "url", url)

	m.browser = ui.NewBrowserScreen(m.newSurface(), logger)
	if m.width > 0 {
		m.browser.SetSize(m.width, m.height)
	}

	cmds := m.runIntents(intents)
	cmds = append(cmds, m.browser.Open(url))
	return m, tea.Batch(cmds...)
}

// goBack returns to the input screen and forgets the last session. The input
// screen reloads once the session is cleared.
func (m Model) goBack() (tea.Model, tea.Cmd) {
	next, intents := nav.Back(m.state)
	if m.state.Screen == nav.ScreenBrowser {
		m.logger.Info("browser session ended", "session", m.sessionID)
		m.browser.Close()
	}
	m.state = next
	m.sessionID = ""

	m.input = ui.NewInputScreen(m.store, m.logger)
	if m.width > 0 {
		m.input.SetSize(m.width, m.height)
	}

	steps := append(m.runIntents(intents), m.input.Load())
	return m, tea.Batch(tea.Sequence(steps...), textinput.Blink)
}

// runIntents turns transition intents into storage commands.
func (m Model) runIntents(intents []nav.Intent) []tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, in := range intents {
		switch in.Kind {
		case nav.IntentPersistSession:
			url := in.URL
			cmds = append(cmds, func() tea.Msg {
				err := store.SaveLastActive(context.Background(), url)
				return ui.StorageResultMsg{Op: "save session", Err: err}
			})
		case nav.IntentClearSession:
			cmds = append(cmds, func() tea.Msg {
				err := store.ClearLastActive(context.Background())
				return ui.StorageResultMsg{Op: "clear session", Err: err}
			})
		}
	}
	return cmds
}

// View implements tea.Model.
func (m Model) View() string {
	if m.state.Screen == nav.ScreenBrowser {
		return m.browser.View()
	}
	return m.input.View()
}
