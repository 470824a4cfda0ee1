package browser

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Options configures a Surface. The terminal surface has no script engine,
// storage API or media player, so JavaScript, DOMStorage and InlineMedia are
// carried for completeness and reported in the status line only.
type Options struct {
	JavaScript   bool
	DOMStorage   bool
	InlineMedia  bool
	MixedContent bool // fetch http targets from https pages as-is
	Gestures     bool // back/forward keys over the surface history
	ForceLight   bool // light rendering style regardless of terminal
	UserAgent    string
	Timeout      time.Duration
	CacheSize    int
}

// DefaultOptions returns the shell's surface configuration.
func DefaultOptions() Options {
	return Options{
		JavaScript:   true,
		DOMStorage:   true,
		InlineMedia:  true,
		MixedContent: true,
		Gestures:     true,
		ForceLight:   true,
		CacheSize:    50,
	}
}

// LoadedMsg reports a finished load. Status is the HTTP status; values of
// 400 and above are HTTP errors whose body is still shown.
type LoadedMsg struct {
	Seq     int
	URL     string
	Page    *RenderedPage
	Status  int
	Cached  bool
	Elapsed time.Duration // zero when Cached
}

// LoadErrorMsg reports a load that produced no response.
type LoadErrorMsg struct {
	Seq int
	URL string
	Err error
}

// Surface is the embedded browser: it loads URLs, keeps its own navigation
// history and renders pages for the terminal. All methods are called from
// the UI loop; the returned commands do the I/O.
type Surface struct {
	opts    Options
	fetcher *Fetcher
	stack   *Stack
	cache   *lru.Cache[string, *RenderedPage]
	width   int
	seq     int
	cancel  context.CancelFunc
	page    *RenderedPage
}

// NewSurface creates a Surface with the given options.
func NewSurface(opts Options) *Surface {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 50
	}
	cache, _ := lru.New[string, *RenderedPage](opts.CacheSize)
	return &Surface{
		opts:    opts,
		fetcher: NewFetcher(opts.UserAgent, opts.Timeout),
		stack:   NewStack(),
		cache:   cache,
		width:   80,
	}
}

// SetWidth sets the render width for subsequent loads.
func (s *Surface) SetWidth(w int) {
	if w > 0 {
		s.width = w
	}
}

// Open navigates to url, adding it to the surface history. Without
// MixedContent, http targets opened from an https page are upgraded.
func (s *Surface) Open(url string) tea.Cmd {
	if !s.opts.MixedContent && strings.HasPrefix(s.stack.Current(), "https://") && strings.HasPrefix(url, "http://") {
		url = "https://" + strings.TrimPrefix(url, "http://")
	}
	s.stack.Push(url)
	return s.load(url, true)
}

// Reload fetches the current URL again, bypassing the page cache.
func (s *Surface) Reload() tea.Cmd {
	current := s.stack.Current()
	if current == "" {
		return nil
	}
	return s.load(current, false)
}

// CanGoBack reports whether the surface has an earlier entry.
func (s *Surface) CanGoBack() bool {
	return s.stack.CanGoBack()
}

// GoBack pops one entry of the surface history. ok is false when there is
// nothing to go back to.
func (s *Surface) GoBack() (tea.Cmd, bool) {
	url, ok := s.stack.Back()
	if !ok {
		return nil, false
	}
	return s.load(url, true), true
}

// GoForward re-enters an entry left by GoBack.
func (s *Surface) GoForward() (tea.Cmd, bool) {
	if !s.opts.Gestures {
		return nil, false
	}
	url, ok := s.stack.Forward()
	if !ok {
		return nil, false
	}
	return s.load(url, true), true
}

// Follow opens the link numbered n on the current page.
func (s *Surface) Follow(n int) (tea.Cmd, bool) {
	if s.page == nil {
		return nil, false
	}
	for _, l := range s.page.Links {
		if l.Index == n {
			return s.Open(l.URL), true
		}
	}
	return nil, false
}

// Current returns the URL of the current history entry.
func (s *Surface) Current() string {
	return s.stack.Current()
}

// Page returns the page last applied, or nil.
func (s *Surface) Page() *RenderedPage {
	return s.page
}

// Loading reports whether a fetch is in flight.
func (s *Surface) Loading() bool {
	return s.cancel != nil
}

// Apply records the outcome of a load. Results from superseded loads are
// ignored and false is returned.
func (s *Surface) Apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Seq != s.seq {
			return false
		}
		s.finish()
		s.page = msg.Page
		if msg.Page.URL != "" && msg.Page.URL != s.stack.Current() {
			s.stack.Replace(msg.Page.URL)
		}
		return true
	case LoadErrorMsg:
		if msg.Seq != s.seq {
			return false
		}
		s.finish()
		s.page = RenderError(msg.URL, msg.Err, s.width, s.opts.ForceLight)
		return true
	}
	return false
}

// Close cancels any in-flight load.
func (s *Surface) Close() {
	s.finish()
}

func (s *Surface) finish() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Surface) load(url string, useCache bool) tea.Cmd {
	s.finish()
	s.seq++
	seq := s.seq

	if useCache {
		if page, ok := s.cache.Get(url); ok {
			return func() tea.Msg {
				return LoadedMsg{Seq: seq, URL: url, Page: page, Status: page.StatusCode, Cached: true}
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	fetcher := s.fetcher
	cache := s.cache
	width := s.width
	light := s.opts.ForceLight

	return func() tea.Msg {
		result, err := fetcher.Fetch(ctx, url)
		if err != nil {
			return LoadErrorMsg{Seq: seq, URL: url, Err: err}
		}

		page := Render(Extract(result), width, light)
		if result.StatusCode < 400 {
			cache.Add(url, page)
			if result.FinalURL != url {
				cache.Add(result.FinalURL, page)
			}
		}
		return LoadedMsg{Seq: seq, URL: url, Page: page, Status: result.StatusCode, Elapsed: result.Duration}
	}
}
