package ui

import tea "github.com/charmbracelet/bubbletea"

// NavigateMsg asks the controller to show URL in the browser screen.
type NavigateMsg struct {
	URL string
}

// BackMsg asks the controller to leave the browser screen.
type BackMsg struct{}

// StorageResultMsg reports the outcome of a background storage write.
type StorageResultMsg struct {
	Op  string
	Err error
}

func navigate(url string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{URL: url}
	}
}

func back() tea.Msg {
	return BackMsg{}
}
