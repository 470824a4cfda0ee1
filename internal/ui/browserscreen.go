package ui

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/tpanel/internal/browser"
	"github.com/vidyasagar/tpanel/internal/theme"
)

// RefreshSpin is the length of one refresh spin cycle.
const RefreshSpin = 500 * time.Millisecond

// Surface is the embedded browser the screen drives.
type Surface interface {
	Open(url string) tea.Cmd
	Reload() tea.Cmd
	CanGoBack() bool
	GoBack() (tea.Cmd, bool)
	GoForward() (tea.Cmd, bool)
	Follow(n int) (tea.Cmd, bool)
	Apply(msg tea.Msg) bool
	Page() *browser.RenderedPage
	Current() string
	SetWidth(w int)
	Close()
}

type refreshDoneMsg struct{}

// BrowserScreen shows one URL inside a Surface with Back and Refresh
// controls on top.
type BrowserScreen struct {
	surface    Surface
	logger     *slog.Logger
	keys       BrowserKeyMap
	viewport   PageViewport
	status     StatusBar
	prompt     Prompt
	spinner    spinner.Model
	refreshing bool
	url        string
	width      int
	height     int
}

// NewBrowserScreen creates a screen around surface.
func NewBrowserScreen(surface Surface, logger *slog.Logger) BrowserScreen {
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"↻", "⟳", "↻", "⟳"},
		FPS:    RefreshSpin / 4,
	}
	sp.Style = lipgloss.NewStyle().Foreground(theme.Current.Accent)

	return BrowserScreen{
		surface:  surface,
		logger:   logger,
		keys:     DefaultBrowserKeyMap(),
		viewport: NewPageViewport(),
		status:   NewStatusBar(),
		prompt:   NewPrompt(),
		spinner:  sp,
	}
}

// Open loads url as the first entry of the screen.
func (b *BrowserScreen) Open(url string) tea.Cmd {
	b.url = url
	b.status.SetLoading(true)
	return b.surface.Open(url)
}

// URL returns the URL the screen was opened with.
func (b BrowserScreen) URL() string { return b.url }

// Close cancels any load in flight on the surface.
func (b BrowserScreen) Close() {
	if b.surface != nil {
		b.surface.Close()
	}
}

// Refreshing reports whether a refresh spin is in progress.
func (b BrowserScreen) Refreshing() bool { return b.refreshing }

// Capturing reports whether the screen is reading keys for its own input.
func (b BrowserScreen) Capturing() bool { return b.prompt.IsActive() }

// SetSize lays the screen out for a terminal of w x h cells.
func (b *BrowserScreen) SetSize(w, h int) {
	b.width = w
	b.height = h
	b.status.SetWidth(w)
	b.prompt.SetWidth(w)
	b.surface.SetWidth(w - 2)
	b.resizeViewport()
}

func (b *BrowserScreen) resizeViewport() {
	h := b.height - 2 // toolbar + status
	if b.prompt.IsActive() {
		h--
	}
	b.viewport.SetSize(b.width, h)
}

// Back walks the surface history back one entry, or asks the controller to
// leave the browser when there is none.
func (b *BrowserScreen) Back() tea.Cmd {
	if cmd, ok := b.surface.GoBack(); ok {
		b.status.SetLoading(true)
		return cmd
	}
	return back
}

// Refresh reloads the current page and runs one spin cycle. Presses during
// the cycle are ignored.
func (b *BrowserScreen) Refresh() tea.Cmd {
	if b.refreshing {
		return nil
	}
	b.refreshing = true
	b.status.SetLoading(true)
	done := tea.Tick(RefreshSpin, func(time.Time) tea.Msg {
		return refreshDoneMsg{}
	})
	return tea.Batch(b.surface.Reload(), b.spinner.Tick, done)
}

// Update implements the bubbletea update step for the screen.
func (b BrowserScreen) Update(msg tea.Msg) (BrowserScreen, tea.Cmd) {
	switch msg := msg.(type) {
	case browser.LoadedMsg:
		if !b.surface.Apply(msg) {
			return b, nil
		}
		if msg.Status >= 400 {
			b.logger.Warn("http error", "url", msg.URL, "status", msg.Status)
		} else {
			b.logger.Debug("page loaded", "url", msg.URL, "cached", msg.Cached, "elapsed", msg.Elapsed)
		}
		b.showPage()
		return b, nil

	case browser.LoadErrorMsg:
		if !b.surface.Apply(msg) {
			return b, nil
		}
		b.logger.Warn("load error", "url", msg.URL, "err", msg.Err)
		b.showPage()
		return b, nil

	case refreshDoneMsg:
		b.refreshing = false
		return b, nil

	case spinner.TickMsg:
		if !b.refreshing {
			return b, nil
		}
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd

	case tea.KeyMsg:
		if b.prompt.IsActive() {
			return b.updatePrompt(msg)
		}
		return b.handleKey(msg)

	case tea.MouseMsg:
		cmd := b.viewport.Update(msg)
		b.status.SetScrollInfo(b.viewport.ScrollInfo())
		return b, cmd
	}

	return b, nil
}

func (b BrowserScreen) handleKey(msg tea.KeyMsg) (BrowserScreen, tea.Cmd) {
	b.status.SetMessage("")

	switch {
	case key.Matches(msg, b.keys.Back):
		cmd := b.Back()
		return b, cmd
	case key.Matches(msg, b.keys.Forward):
		if cmd, ok := b.surface.GoForward(); ok {
			b.status.SetLoading(true)
			return b, cmd
		}
		return b, nil
	case key.Matches(msg, b.keys.Refresh):
		cmd := b.Refresh()
		return b, cmd
	case key.Matches(msg, b.keys.FollowLink):
		b.status.SetMode("FOLLOW")
		cmd := b.prompt.Open()
		b.resizeViewport()
		return b, cmd
	case key.Matches(msg, b.keys.ScrollDown):
		b.viewport.LineDown(1)
	case key.Matches(msg, b.keys.ScrollUp):
		b.viewport.LineUp(1)
	case key.Matches(msg, b.keys.HalfPageDown):
		b.viewport.HalfPageDown()
	case key.Matches(msg, b.keys.HalfPageUp):
		b.viewport.HalfPageUp()
	case key.Matches(msg, b.keys.GotoTop):
		b.viewport.GotoTop()
	case key.Matches(msg, b.keys.GotoBottom):
		b.viewport.GotoBottom()
	}
	b.status.SetScrollInfo(b.viewport.ScrollInfo())
	return b, nil
}

func (b BrowserScreen) updatePrompt(msg tea.KeyMsg) (BrowserScreen, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		b.prompt.Close()
		b.status.SetMode("VIEW")
		b.resizeViewport()
		return b, nil
	case tea.KeyEnter:
		val := b.prompt.Submit()
		b.status.SetMode("VIEW")
		b.resizeViewport()
		n, err := strconv.Atoi(val)
		if err != nil {
			b.status.SetMessage(fmt.Sprintf("not a link number: %q", val))
			return b, nil
		}
		cmd, ok := b.surface.Follow(n)
		if !ok {
			b.status.SetMessage(fmt.Sprintf("no link %d", n))
			return b, nil
		}
		b.status.SetLoading(true)
		return b, cmd
	}
	cmd := b.prompt.Update(msg)
	return b, cmd
}

func (b *BrowserScreen) showPage() {
	page := b.surface.Page()
	b.status.SetLoading(false)
	if page == nil {
		return
	}
	b.status.SetTitle(page.Title)
	b.status.SetStatus(page.StatusCode)
	b.status.SetLinkCount(len(page.Links))
	b.viewport.SetContent(page.Content)
	b.status.SetScrollInfo(b.viewport.ScrollInfo())
}

// View renders the screen.
func (b BrowserScreen) View() string {
	t := theme.Current

	button := lipgloss.NewStyle().
		Foreground(t.OnColor).
		Background(t.Primary).
		Bold(true).
		Padding(0, 1)

	refresh := button.Render("↻ Refresh")
	if b.refreshing {
		refresh = button.Render(b.spinner.View() + " Refresh")
	}

	current := b.surface.Current()
	if current == "" {
		current = b.url
	}
	urlStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Padding(0, 1)

	left := button.Render("← Back") + " " + refresh
	room := b.width - lipgloss.Width(left) - 2
	if room > 3 && len(current) > room {
		current = current[:room-3] + "..."
	}
	toolbar := lipgloss.NewStyle().
		Background(t.Surface).
		Width(b.width).
		Render(left + urlStyle.Render(current))

	sections := []string{toolbar, b.viewport.View()}
	if b.prompt.IsActive() {
		sections = append(sections, b.prompt.View())
	}
	sections = append(sections, b.status.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
