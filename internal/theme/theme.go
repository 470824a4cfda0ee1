// Package theme holds the color palettes for the shell chrome. Page content
// is always rendered in the light style by the browser surface.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name string

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
	OnColor lipgloss.Color // text drawn on Primary/Success fills

	Background  lipgloss.Color
	Surface     lipgloss.Color
	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Link    lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color
}

var themes = map[string]Theme{
	"light":     Light,
	"dark":      Dark,
	"solarized": Solarized,
}

// Light mirrors the indigo control-panel look.
var Light = Theme{
	Name:        "light",
	Primary:     lipgloss.Color("#667EEA"),
	Secondary:   lipgloss.Color("#764BA2"),
	Accent:      lipgloss.Color("#F59E0B"),
	Text:        lipgloss.Color("#333333"),
	TextDim:     lipgloss.Color("#999999"),
	OnColor:     lipgloss.Color("#FFFFFF"),
	Background:  lipgloss.Color("#FFFFFF"),
	Surface:     lipgloss.Color("#F0F0F0"),
	Border:      lipgloss.Color("#DDDDDD"),
	BorderFocus: lipgloss.Color("#667EEA"),
	Link:        lipgloss.Color("#007AFF"),
	Error:       lipgloss.Color("#D32F2F"),
	Success:     lipgloss.Color("#4CAF50"),
	Warning:     lipgloss.Color("#B58900"),
	Info:        lipgloss.Color("#2E7D32"),
}

var Dark = Theme{
	Name:        "dark",
	Primary:     lipgloss.Color("#7C3AED"),
	Secondary:   lipgloss.Color("#06B6D4"),
	Accent:      lipgloss.Color("#F59E0B"),
	Text:        lipgloss.Color("#E2E8F0"),
	TextDim:     lipgloss.Color("#64748B"),
	OnColor:     lipgloss.Color("#0F172A"),
	Background:  lipgloss.Color("#0F172A"),
	Surface:     lipgloss.Color("#1E293B"),
	Border:      lipgloss.Color("#334155"),
	BorderFocus: lipgloss.Color("#7C3AED"),
	Link:        lipgloss.Color("#38BDF8"),
	Error:       lipgloss.Color("#EF4444"),
	Success:     lipgloss.Color("#22C55E"),
	Warning:     lipgloss.Color("#F59E0B"),
	Info:        lipgloss.Color("#3B82F6"),
}

var Solarized = Theme{
	Name:        "solarized",
	Primary:     lipgloss.Color("#268BD2"),
	Secondary:   lipgloss.Color("#2AA198"),
	Accent:      lipgloss.Color("#B58900"),
	Text:        lipgloss.Color("#657B83"),
	TextDim:     lipgloss.Color("#93A1A1"),
	OnColor:     lipgloss.Color("#FDF6E3"),
	Background:  lipgloss.Color("#FDF6E3"),
	Surface:     lipgloss.Color("#EEE8D5"),
	Border:      lipgloss.Color("#93A1A1"),
	BorderFocus: lipgloss.Color("#268BD2"),
	Link:        lipgloss.Color("#268BD2"),
	Error:       lipgloss.Color("#DC322F"),
	Success:     lipgloss.Color("#859900"),
	Warning:     lipgloss.Color("#B58900"),
	Info:        lipgloss.Color("#2AA198"),
}

// Current is the active theme.
var Current = Light

// Set changes the active theme by name.
func Set(name string) bool {
	if t, ok := themes[name]; ok {
		Current = t
		return true
	}
	return false
}

// List returns all available theme names, sorted.
func List() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
