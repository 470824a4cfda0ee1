package nav

import "strings"

// MaxHistory is the number of submitted URLs kept.
const MaxHistory = 10

// History is the list of submitted URLs, most recent first, without
// duplicates.
type History []string

// Normalize trims raw input and prefixes http:// when it does not already
// start with "http". ok is false for blank input.
func Normalize(raw string) (url string, ok bool) {
	url = strings.TrimSpace(raw)
	if url == "" {
		return "", false
	}
	if !strings.HasPrefix(url, "http") {
		url = "http://" + url
	}
	return url, true
}

// Push returns a new history with url at the front. Any earlier occurrence
// is removed and the result is capped at MaxHistory. The receiver is not
// modified.
func (h History) Push(url string) History {
	out := make(History, 0, len(h)+1)
	out = append(out, url)
	for _, u := range h {
		if u != url {
			out = append(out, u)
		}
	}
	if len(out) > MaxHistory {
		out = out[:MaxHistory]
	}
	return out
}

// Contains reports whether url is in the history.
func (h History) Contains(url string) bool {
	for _, u := range h {
		if u == url {
			return true
		}
	}
	return false
}
