package browser

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/glamour"
)

// glamour renderers are costly to build; keep one per (width, style).
var (
	rendererMu    sync.Mutex
	rendererCache = map[rendererKey]*glamour.TermRenderer{}
)

type rendererKey struct {
	width int
	light bool
}

// RenderedPage holds the final terminal-ready output.
type RenderedPage struct {
	Title      string
	URL        string
	StatusCode int
	Content    string
	Links      []Link
}

// Render converts an Article's HTML into styled terminal text. With light
// set, the light glamour style is used whatever the terminal background.
func Render(article *Article, width int, light bool) *RenderedPage {
	if width <= 0 {
		width = 80
	}
	contentWidth := width - 4
	if contentWidth > 100 {
		contentWidth = 100
	}
	if contentWidth < 20 {
		contentWidth = 20
	}

	page := &RenderedPage{
		Title:      article.Title,
		URL:        article.FinalURL,
		StatusCode: article.StatusCode,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		page.Content = article.Content
		return page
	}

	base, _ := url.Parse(article.FinalURL)
	conv := &converter{base: base}

	var md strings.Builder
	if article.Title != "" {
		md.WriteString("# " + article.Title + "\n\n")
	}
	if article.Byline != "" {
		md.WriteString("*" + article.Byline + "*\n\n")
	}
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		md.WriteString(conv.block(s))
	})

	out, err := renderMarkdown(md.String(), contentWidth, light)
	if err != nil {
		out = md.String()
	}
	page.Content = out
	page.Links = conv.links
	return page
}

// RenderError builds the page shown when a load fails.
func RenderError(rawURL string, loadErr error, width int, light bool) *RenderedPage {
	md := fmt.Sprintf("# Page could not be loaded\n\n`%s`\n\n%s\n", rawURL, loadErr)
	out, err := renderMarkdown(md, width, light)
	if err != nil {
		out = md
	}
	return &RenderedPage{Title: "Error", URL: rawURL, Content: out}
}

func renderMarkdown(md string, width int, light bool) (string, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	key := rendererKey{width: width, light: light}
	r, ok := rendererCache[key]
	if !ok {
		style := glamour.WithAutoStyle()
		if light {
			style = glamour.WithStandardStyle("light")
		}
		var err error
		r, err = glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
		if err != nil {
			return "", err
		}
		rendererCache[key] = r
	}
	return r.Render(md)
}

// converter walks goquery nodes and emits markdown, numbering links as it
// goes.
type converter struct {
	base  *url.URL
	links []Link
}

var skipped = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"svg": true, "head": true, "iframe": true, "canvas": true,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "ul": true,
}

func (c *converter) block(s *goquery.Selection) string {
	tag := goquery.NodeName(s)
	if skipped[tag] {
		return ""
	}

	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := strings.TrimSpace(c.inline(s))
		if text == "" {
			return ""
		}
		return strings.Repeat("#", int(tag[1]-'0')) + " " + text + "\n\n"
	case "p", "label", "figcaption", "summary":
		return paragraph(c.inline(s))
	case "ul", "ol":
		return c.list(s, tag == "ol", 0) + "\n"
	case "blockquote":
		var sb strings.Builder
		for _, line := range strings.Split(strings.TrimRight(c.children(s), "\n"), "\n") {
			sb.WriteString("> " + line + "\n")
		}
		return sb.String() + "\n"
	case "pre":
		return "```\n" + strings.TrimRight(s.Text(), "\n") + "\n```\n\n"
	case "hr":
		return "---\n\n"
	case "table":
		return c.table(s)
	case "img":
		alt, _ := s.Attr("alt")
		if alt == "" {
			return ""
		}
		return "*[image: " + alt + "]*\n\n"
	case "input", "button", "select", "textarea":
		return paragraph(c.control(s))
	case "a":
		return paragraph(c.link(s))
	}

	// Containers and anything unknown: recurse into block children,
	// otherwise the element is a run of inline content.
	hasBlock := false
	s.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		hasBlock = blockTags[goquery.NodeName(child)]
		return !hasBlock
	})
	if hasBlock {
		return c.children(s)
	}
	return paragraph(c.inline(s))
}

func (c *converter) children(s *goquery.Selection) string {
	var sb strings.Builder
	s.Children().Each(func(_ int, child *goquery.Selection) {
		sb.WriteString(c.block(child))
	})
	return sb.String()
}

func (c *converter) inline(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(_ int, n *goquery.Selection) {
		tag := goquery.NodeName(n)
		switch {
		case tag == "#text":
			sb.WriteString(collapse(n.Text()))
		case skipped[tag]:
		case tag == "a":
			sb.WriteString(c.link(n))
		case tag == "strong" || tag == "b":
			sb.WriteString("**" + strings.TrimSpace(c.inline(n)) + "**")
		case tag == "em" || tag == "i":
			sb.WriteString("*" + strings.TrimSpace(c.inline(n)) + "*")
		case tag == "code":
			sb.WriteString("`" + n.Text() + "`")
		case tag == "br":
			sb.WriteString("  \n")
		case tag == "input" || tag == "button" || tag == "select":
			sb.WriteString(c.control(n))
		default:
			sb.WriteString(c.inline(n))
		}
	})
	return sb.String()
}

func (c *converter) link(s *goquery.Selection) string {
	text := strings.TrimSpace(collapse(s.Text()))
	href, ok := s.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return text
	}
	target := c.resolve(href)
	if text == "" {
		text = target
	}

	idx := len(c.links) + 1
	c.links = append(c.links, Link{Index: idx, Text: text, URL: target})
	return fmt.Sprintf("%s **[%d]**", text, idx)
}

func (c *converter) resolve(href string) string {
	ref, err := url.Parse(href)
	if err != nil || c.base == nil {
		return href
	}
	return c.base.ResolveReference(ref).String()
}

// control renders form widgets as a bracketed label.
func (c *converter) control(s *goquery.Selection) string {
	label := strings.TrimSpace(collapse(s.Text()))
	for _, attr := range []string{"value", "placeholder", "aria-label", "name"} {
		if label != "" {
			break
		}
		label, _ = s.Attr(attr)
	}
	if typ, _ := s.Attr("type"); typ == "hidden" || label == "" {
		return ""
	}
	return "`[" + label + "]`"
}

func (c *converter) list(s *goquery.Selection, ordered bool, depth int) string {
	var sb strings.Builder
	indent := strings.Repeat("  ", depth)
	s.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		bullet := "- "
		if ordered {
			bullet = fmt.Sprintf("%d. ", i+1)
		}
		item := li.Clone()
		item.Find("ul, ol").Remove()
		sb.WriteString(indent + bullet + strings.TrimSpace(c.inline(item)) + "\n")

		li.ChildrenFiltered("ul, ol").Each(func(_ int, sub *goquery.Selection) {
			sb.WriteString(c.list(sub, goquery.NodeName(sub) == "ol", depth+1))
		})
	})
	return sb.String()
}

func (c *converter) table(s *goquery.Selection) string {
	var rows [][]string
	width := 0
	s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, strings.ReplaceAll(strings.TrimSpace(c.inline(cell)), "|", "\\|"))
		})
		if len(row) > width {
			width = len(row)
		}
		rows = append(rows, row)
	})
	if width == 0 {
		return ""
	}

	var sb strings.Builder
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
		if i == 0 {
			sb.WriteString(strings.Repeat("| --- ", width) + "|\n")
		}
	}
	return sb.String() + "\n"
}

func paragraph(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return text + "\n\n"
}

// collapse squeezes runs of whitespace to one space, keeping a single
// leading or trailing space so inline runs such as "a <b>b</b>" do not glue
// together.
func collapse(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(words, " ")
	if unicode.IsSpace(rune(s[0])) {
		out = " " + out
	}
	if unicode.IsSpace(rune(s[len(s)-1])) {
		out += " "
	}
	return out
}
