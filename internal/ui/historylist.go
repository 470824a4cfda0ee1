package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/tpanel/internal/theme"
)

// HistoryList shows the submitted URLs below the input card. It has no
// selection until the user moves into it.
type HistoryList struct {
	entries []string
	cursor  int // -1 while the URL field has focus
	offset  int
	width   int
	height  int
	visible bool
}

// NewHistoryList creates a hidden, empty list.
func NewHistoryList() HistoryList {
	return HistoryList{cursor: -1}
}

// SetEntries replaces the entries and drops the selection.
func (hl *HistoryList) SetEntries(entries []string) {
	hl.entries = entries
	hl.cursor = -1
	hl.offset = 0
}

// SetSize updates the list dimensions.
func (hl *HistoryList) SetSize(w, h int) {
	hl.width = w
	hl.height = h
}

// Toggle switches visibility; hiding drops the selection.
func (hl *HistoryList) Toggle() {
	hl.visible = !hl.visible
	if !hl.visible {
		hl.cursor = -1
		hl.offset = 0
	}
}

// IsVisible reports whether the list is shown.
func (hl *HistoryList) IsVisible() bool {
	return hl.visible
}

// Active reports whether an entry is selected.
func (hl *HistoryList) Active() bool {
	return hl.visible && hl.cursor >= 0
}

// CursorDown selects the next entry, entering the list from the top.
func (hl *HistoryList) CursorDown() {
	if !hl.visible || hl.cursor >= len(hl.entries)-1 {
		return
	}
	hl.cursor++
	hl.ensureVisible()
}

// CursorUp selects the previous entry; moving up from the first entry
// leaves the list.
func (hl *HistoryList) CursorUp() {
	if hl.cursor < 0 {
		return
	}
	hl.cursor--
	if hl.cursor < 0 {
		hl.offset = 0
		return
	}
	hl.ensureVisible()
}

// Deselect drops the selection.
func (hl *HistoryList) Deselect() {
	hl.cursor = -1
}

// Selected returns the selected URL.
func (hl *HistoryList) Selected() (string, bool) {
	if !hl.Active() || hl.cursor >= len(hl.entries) {
		return "", false
	}
	return hl.entries[hl.cursor], true
}

func (hl *HistoryList) visibleCount() int {
	n := hl.height - 2 // border
	if n < 1 {
		return 1
	}
	return n
}

func (hl *HistoryList) ensureVisible() {
	visible := hl.visibleCount()
	if hl.cursor < hl.offset {
		hl.offset = hl.cursor
	}
	if hl.cursor >= hl.offset+visible {
		hl.offset = hl.cursor - visible + 1
	}
}

// View renders the list card.
func (hl *HistoryList) View() string {
	if !hl.visible {
		return ""
	}

	t := theme.Current

	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	if hl.width > 0 {
		cardStyle = cardStyle.Width(hl.width - 2)
	}

	if len(hl.entries) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(t.TextDim).
			Italic(true).
			Render("No history yet")
		return cardStyle.Render(empty)
	}

	itemStyle := lipgloss.NewStyle().Foreground(t.Text)
	selectedStyle := lipgloss.NewStyle().
		Foreground(t.OnColor).
		Background(t.Primary).
		Bold(true)

	maxLen := hl.width - 8
	if maxLen < 10 {
		maxLen = 10
	}

	end := hl.offset + hl.visibleCount()
	if end > len(hl.entries) {
		end = len(hl.entries)
	}

	lines := make([]string, 0, end-hl.offset)
	for i := hl.offset; i < end; i++ {
		url := hl.entries[i]
		if len(url) > maxLen {
			url = url[:maxLen-3] + "..."
		}
		if i == hl.cursor {
			lines = append(lines, selectedStyle.Render("▸ "+url))
		} else {
			lines = append(lines, itemStyle.Render("  "+url))
		}
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}
