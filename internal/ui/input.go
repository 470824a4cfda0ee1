package ui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/tpanel/internal/nav"
	"github.com/vidyasagar/tpanel/internal/theme"
)

// HistoryStore is the persistence the input screen reads and writes.
type HistoryStore interface {
	LastActive(ctx context.Context) (string, error)
	History(ctx context.Context) (nav.History, error)
	SaveHistory(ctx context.Context, h nav.History) error
}

// inputLoadedMsg carries the values read when the input screen opens.
type inputLoadedMsg struct {
	history    nav.History
	lastActive string
	historyErr error
	sessionErr error
}

// InputScreen collects a server URL, keeps the submitted-URL history and
// offers to continue the last session.
type InputScreen struct {
	store      HistoryStore // nil when storage is unavailable
	logger     *slog.Logger
	keys       InputKeyMap
	urlBar     URLBar
	list       HistoryList
	history    nav.History
	lastActive string
	width      int
	height     int
}

// NewInputScreen creates the input screen. store may be nil.
func NewInputScreen(store HistoryStore, logger *slog.Logger) InputScreen {
	s := InputScreen{
		store:  store,
		logger: logger,
		keys:   DefaultInputKeyMap(),
		urlBar: NewURLBar(),
		list:   NewHistoryList(),
	}
	s.urlBar.Focus()
	return s
}

// Init loads history and the last session once.
func (s InputScreen) Init() tea.Cmd {
	return tea.Batch(s.Load(), textinput.Blink)
}

// Load reads history and the last session from the store.
func (s InputScreen) Load() tea.Cmd {
	store := s.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		var msg inputLoadedMsg
		msg.history, msg.historyErr = store.History(ctx)
		msg.lastActive, msg.sessionErr = store.LastActive(ctx)
		return msg
	}
}

// SetSize lays the screen out for a terminal of w x h cells.
func (s *InputScreen) SetSize(w, h int) {
	s.width = w
	s.height = h
	cw := cardWidth(w)
	s.urlBar.SetWidth(cw - 4)
	s.list.SetSize(cw, h/2)
}

// History returns the in-memory history.
func (s InputScreen) History() nav.History { return s.history }

// LastActive returns the last session URL loaded at open, or "".
func (s InputScreen) LastActive() string { return s.lastActive }

// Update implements the bubbletea update step for the screen.
func (s InputScreen) Update(msg tea.Msg) (InputScreen, tea.Cmd) {
	switch msg := msg.(type) {
	case inputLoadedMsg:
		if msg.historyErr != nil {
			s.logger.Warn("loading history", "err", msg.historyErr)
		} else {
			s.history = msg.history
			s.list.SetEntries(s.history)
		}
		if msg.sessionErr != nil {
			s.logger.Warn("checking last session", "err", msg.sessionErr)
		} else {
			s.lastActive = msg.lastActive
		}
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Submit):
			if url, ok := s.list.Selected(); ok {
				cmd := s.SelectFromHistory(url)
				return s, cmd
			}
			cmd := s.Submit(s.urlBar.Value())
			return s, cmd
		case key.Matches(msg, s.keys.ToggleHistory):
			s.list.Toggle()
			return s, nil
		case key.Matches(msg, s.keys.Down):
			s.list.CursorDown()
			return s, nil
		case key.Matches(msg, s.keys.Up):
			s.list.CursorUp()
			return s, nil
		case key.Matches(msg, s.keys.Resume):
			cmd := s.ResumeLastSession()
			return s, cmd
		case key.Matches(msg, s.keys.ClearHistory):
			cmd := s.ClearHistory()
			return s, cmd
		}
		s.list.Deselect()
	}

	cmd := s.urlBar.Update(msg)
	return s, cmd
}

// Submit normalizes raw, records it in the history and navigates to it.
// Blank input does nothing.
func (s *InputScreen) Submit(raw string) tea.Cmd {
	url, ok := nav.Normalize(raw)
	if !ok {
		return nil
	}
	s.history = s.history.Push(url)
	s.list.SetEntries(s.history)
	return tea.Batch(s.saveHistory(), navigate(url))
}

// SelectFromHistory navigates to a stored URL as-is.
func (s *InputScreen) SelectFromHistory(url string) tea.Cmd {
	s.urlBar.SetValue(url)
	return navigate(url)
}

// ResumeLastSession navigates to the last active URL, if any.
func (s *InputScreen) ResumeLastSession() tea.Cmd {
	if s.lastActive == "" {
		return nil
	}
	return navigate(s.lastActive)
}

// ClearHistory empties the history and stores the empty list.
func (s *InputScreen) ClearHistory() tea.Cmd {
	s.history = nav.History{}
	s.list.SetEntries(s.history)
	return s.saveHistory()
}

func (s *InputScreen) saveHistory() tea.Cmd {
	store := s.store
	if store == nil {
		return nil
	}
	h := s.history
	return func() tea.Msg {
		err := store.SaveHistory(context.Background(), h)
		return StorageResultMsg{Op: "save history", Err: err}
	}
}

func cardWidth(termWidth int) int {
	w := termWidth - 4
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	return w
}

// View renders the screen.
func (s InputScreen) View() string {
	t := theme.Current
	cw := cardWidth(s.width)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Render("🚀 Control Panel")
	subtitle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Render("Queue system")

	var card []string

	if s.lastActive != "" {
		url := s.lastActive
		if room := cw - 8; len(url) > room && room > 3 {
			url = url[:room-3] + "..."
		}
		session := lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderTop(false).
			BorderRight(false).
			BorderBottom(false).
			BorderForeground(t.Success).
			Padding(0, 1).
			Render(
				lipgloss.NewStyle().Bold(true).Foreground(t.Info).Render("🔄 Active session") + "\n" +
					lipgloss.NewStyle().Foreground(t.TextDim).Render(url) + "\n" +
					lipgloss.NewStyle().Foreground(t.OnColor).Background(t.Success).Padding(0, 1).Render("ctrl+r  continue session"),
			)
		card = append(card, session, "")
	}

	card = append(card, s.urlBar.View())
	card = append(card, lipgloss.NewStyle().Foreground(t.TextDim).Render("Example: 192.168.1.100:8080"))

	toggle := "📋 History (tab)"
	if s.list.IsVisible() {
		toggle = "📋 Hide history (tab)"
	}
	card = append(card, "", lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(toggle))

	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2).
		Width(cw)

	sections := []string{
		"",
		lipgloss.PlaceHorizontal(cw+2, lipgloss.Center, title),
		lipgloss.PlaceHorizontal(cw+2, lipgloss.Center, subtitle),
		"",
		cardStyle.Render(strings.Join(card, "\n")),
	}
	if s.list.IsVisible() {
		sections = append(sections, s.list.View())
	}

	help := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Render("enter open · ↑/↓ pick from history · ctrl+x clear history · esc quit")
	sections = append(sections, "", help)

	return lipgloss.NewStyle().
		Padding(0, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
