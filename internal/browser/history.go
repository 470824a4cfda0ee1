package browser

// Stack is the surface's own navigation history: a list of visited URLs
// with a cursor. Pushing while not at the end drops the forward entries.
type Stack struct {
	urls []string
	pos  int
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{pos: -1}
}

// Push records url as the current entry.
func (s *Stack) Push(url string) {
	s.urls = append(s.urls[:s.pos+1], url)
	s.pos = len(s.urls) - 1
}

// Replace overwrites the current entry, used when a load was redirected.
func (s *Stack) Replace(url string) {
	if s.pos >= 0 {
		s.urls[s.pos] = url
	}
}

// Back steps to the previous entry.
func (s *Stack) Back() (string, bool) {
	if !s.CanGoBack() {
		return "", false
	}
	s.pos--
	return s.urls[s.pos], true
}

// Forward steps to the next entry.
func (s *Stack) Forward() (string, bool) {
	if !s.CanGoForward() {
		return "", false
	}
	s.pos++
	return s.urls[s.pos], true
}

// Current returns the current URL or "".
func (s *Stack) Current() string {
	if s.pos < 0 {
		return ""
	}
	return s.urls[s.pos]
}

func (s *Stack) CanGoBack() bool    { return s.pos > 0 }
func (s *Stack) CanGoForward() bool { return s.pos < len(s.urls)-1 }
func (s *Stack) Len() int           { return len(s.urls) }
