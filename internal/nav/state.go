// Package nav holds the navigation state of the shell and the pure
// transitions between its two screens.
package nav

// Screen identifies which of the two screens is shown.
type Screen int

const (
	ScreenInput Screen = iota
	ScreenBrowser
)

func (s Screen) String() string {
	switch s {
	case ScreenBrowser:
		return "browser"
	default:
		return "input"
	}
}

// State is the whole navigation state. URL is empty iff Screen is ScreenInput.
type State struct {
	Screen Screen
	URL    string
}

// IntentKind names a side effect requested by a transition.
type IntentKind int

const (
	IntentPersistSession IntentKind = iota // store URL as the last session
	IntentClearSession                     // forget the last session
)

// Intent is a side effect the runtime must carry out after a transition.
type Intent struct {
	Kind IntentKind
	URL  string
}

// Initial returns the startup state (input screen).
func Initial() State {
	return State{Screen: ScreenInput}
}

// Navigate moves to the browser screen showing url. An empty url leaves the
// state untouched and requests nothing.
func Navigate(s State, url string) (State, []Intent) {
	if url == "" {
		return s, nil
	}
	next := State{Screen: ScreenBrowser, URL: url}
	return next, []Intent{{Kind: IntentPersistSession, URL: url}}
}

// Back returns to the input screen and asks for the stored session to be
// cleared. It is valid from either screen.
func Back(s State) (State, []Intent) {
	return Initial(), []Intent{{Kind: IntentClearSession}}
}

// Restore applies a URL read from storage at startup. It behaves like
// Navigate; an empty value keeps the input screen.
func Restore(url string) (State, []Intent) {
	return Navigate(Initial(), url)
}
