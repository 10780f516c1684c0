package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/soundboard/api"
)

// SoundList represents a scrollable list of catalog sounds
type SoundList struct {
	Items         []api.SoundItem
	Selected      int
	Height        int
	Width         int
	Offset        int
	Title         string
	SelectedStyle lipgloss.Style
	NormalStyle   lipgloss.Style
	CategoryStyle lipgloss.Style
	TitleStyle    lipgloss.Style
}

// NewSoundList creates a new sound list
func NewSoundList(height, width int) SoundList {
	return SoundList{
		Items:  make([]api.SoundItem, 0),
		Height: height,
		Width:  width,
		SelectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Bold(true).
			Padding(0, 1),
		NormalStyle: lipgloss.NewStyle().
			Padding(0, 1),
		CategoryStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			MarginBottom(1),
	}
}

// SetItems replaces the list items and resets the selection
func (l *SoundList) SetItems(items []api.SoundItem) {
	l.Items = items
	l.Selected = 0
	l.Offset = 0
}

// Update handles messages for the sound list
func (l SoundList) Update(msg tea.Msg) (SoundList, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home":
			l.Selected = 0
			l.Offset = 0
		case "end":
			if len(l.Items) > 0 {
				l.Selected = len(l.Items) - 1
				l.ensureVisible()
			}
		case "pgup":
			l.PageUp()
		case "pgdown":
			l.PageDown()
		}
	}
	return l, nil
}

// MoveUp moves selection up
func (l *SoundList) MoveUp() {
	if l.Selected > 0 {
		l.Selected--
		l.ensureVisible()
	}
}

// MoveDown moves selection down
func (l *SoundList) MoveDown() {
	if l.Selected < len(l.Items)-1 {
		l.Selected++
		l.ensureVisible()
	}
}

// PageUp moves selection up by a page
func (l *SoundList) PageUp() {
	l.Selected -= l.visibleHeight()
	if l.Selected < 0 {
		l.Selected = 0
	}
	l.ensureVisible()
}

// PageDown moves selection down by a page
func (l *SoundList) PageDown() {
	l.Selected += l.visibleHeight()
	if l.Selected >= len(l.Items) {
		l.Selected = len(l.Items) - 1
	}
	if l.Selected < 0 {
		l.Selected = 0
	}
	l.ensureVisible()
}

func (l *SoundList) visibleHeight() int {
	h := l.Height - 2 // title and counter
	if h < 1 {
		return 1
	}
	return h
}

func (l *SoundList) ensureVisible() {
	visible := l.visibleHeight()
	if l.Selected < l.Offset {
		l.Offset = l.Selected
	} else if l.Selected >= l.Offset+visible {
		l.Offset = l.Selected - visible + 1
	}
}

// SelectedItem returns the currently selected sound
func (l *SoundList) SelectedItem() (api.SoundItem, bool) {
	if l.Selected >= 0 && l.Selected < len(l.Items) {
		return l.Items[l.Selected], true
	}
	return api.SoundItem{}, false
}

// View renders the sound list
func (l SoundList) View() string {
	var sb strings.Builder

	if l.Title != "" {
		sb.WriteString(l.TitleStyle.Render(l.Title))
		sb.WriteString("\n")
	}

	if len(l.Items) == 0 {
		sb.WriteString(l.NormalStyle.Render("No sounds"))
		return sb.String()
	}

	end := l.Offset + l.visibleHeight()
	if end > len(l.Items) {
		end = len(l.Items)
	}

	for i := l.Offset; i < end; i++ {
		item := l.Items[i]
		name := truncate(item.Description, 30)
		if name == "" {
			name = item.ID
		}
		category := truncate(item.Category, 16)

		if i == l.Selected {
			sb.WriteString(l.SelectedStyle.Render(fmt.Sprintf("%-30s %s", name, category)))
		} else {
			sb.WriteString(l.NormalStyle.Render(fmt.Sprintf("%-30s %s", name, l.CategoryStyle.Render(category))))
		}
		if i < end-1 {
			sb.WriteString("\n")
		}
	}

	if len(l.Items) > l.visibleHeight() {
		sb.WriteString("\n")
		sb.WriteString(l.NormalStyle.Render(fmt.Sprintf("  [%d/%d]", l.Selected+1, len(l.Items))))
	}

	return sb.String()
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
