package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vidyasagar/tpanel/internal/theme"
)

// Prompt is a one-line input shown under the page, used to type the number
// of a link to follow.
type Prompt struct {
	input  textinput.Model
	active bool
	width  int
}

// NewPrompt creates a closed prompt.
func NewPrompt() Prompt {
	ti := textinput.New()
	ti.CharLimit = 8
	ti.Prompt = "f"
	ti.Placeholder = "link #..."
	return Prompt{input: ti}
}

// SetWidth sets the prompt width.
func (p *Prompt) SetWidth(w int) {
	p.width = w
	p.input.Width = w - 4
}

// Open activates the prompt.
func (p *Prompt) Open() tea.Cmd {
	p.active = true
	p.input.Reset()
	return p.input.Focus()
}

// Close deactivates the prompt.
func (p *Prompt) Close() {
	p.active = false
	p.input.Blur()
	p.input.Reset()
}

// IsActive reports whether the prompt is open.
func (p *Prompt) IsActive() bool {
	return p.active
}

// Submit closes the prompt and returns the trimmed text.
func (p *Prompt) Submit() string {
	val := strings.TrimSpace(p.input.Value())
	p.Close()
	return val
}

// Update processes messages for the prompt.
func (p *Prompt) Update(msg tea.Msg) tea.Cmd {
	if !p.active {
		return nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the prompt.
func (p *Prompt) View() string {
	if !p.active {
		return ""
	}

	t := theme.Current

	barStyle := lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Surface).
		Width(p.width)

	return barStyle.Render(p.input.View())
}
