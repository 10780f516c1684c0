package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SearchInput is a bordered single-line filter box
type SearchInput struct {
	Input      textinput.Model
	Width      int
	Style      lipgloss.Style
	FocusStyle lipgloss.Style
}

// NewSearchInput creates a new search input
func NewSearchInput(width int) SearchInput {
	ti := textinput.New()
	ti.Placeholder = "Filter sounds..."
	ti.Prompt = "/ "
	ti.CharLimit = 64

	return SearchInput{
		Input: ti,
		Width: width,
		Style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		FocusStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1),
	}
}

// Focus sets focus on the input
func (s *SearchInput) Focus() tea.Cmd {
	return s.Input.Focus()
}

// Blur removes focus from the input
func (s *SearchInput) Blur() {
	s.Input.Blur()
}

// Focused reports whether the input takes keystrokes
func (s SearchInput) Focused() bool {
	return s.Input.Focused()
}

// Value returns the current filter text
func (s SearchInput) Value() string {
	return s.Input.Value()
}

// Clear clears the input
func (s *SearchInput) Clear() {
	s.Input.SetValue("")
}

// Update handles messages for the search input
func (s SearchInput) Update(msg tea.Msg) (SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// View renders the search input
func (s SearchInput) View() string {
	s.Input.Width = s.Width - 8
	if s.Input.Focused() {
		return s.FocusStyle.Width(s.Width).Render(s.Input.View())
	}
	return s.Style.Width(s.Width).Render(s.Input.View())
}
