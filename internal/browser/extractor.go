package browser

import (
	"bytes"
	"html"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Article holds the content of a fetched page ready for rendering.
type Article struct {
	Title      string
	Byline     string
	Content    string // HTML
	URL        string
	FinalURL   string
	StatusCode int
}

// Link represents a hyperlink found in the page content.
type Link struct {
	Index int
	Text  string
	URL   string
}

// minReadable is the shortest readability output accepted before falling
// back to the raw document. Dashboards and control pages are mostly short
// forms and tables that readability discards.
const minReadable = 200

// Extract turns a FetchResult into an Article. Readable article content is
// preferred; otherwise the whole document body is used.
func Extract(result *FetchResult) *Article {
	a := &Article{
		Title:      result.FinalURL,
		URL:        result.URL,
		FinalURL:   result.FinalURL,
		StatusCode: result.StatusCode,
	}

	if !IsHTML(result.ContentType) {
		a.Content = "<pre>" + html.EscapeString(string(result.Body)) + "</pre>"
		return a
	}

	a.Content = string(result.Body)

	base, err := url.Parse(result.FinalURL)
	if err != nil {
		return a
	}
	article, err := readability.FromReader(bytes.NewReader(result.Body), base)
	if err != nil {
		return a
	}

	if t := strings.TrimSpace(article.Title); t != "" {
		a.Title = t
	}
	a.Byline = article.Byline
	if len(strings.TrimSpace(article.TextContent)) >= minReadable {
		a.Content = article.Content
	}
	return a
}
