package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/soundboard/api"
)

// LoopsView lists the stored loops
type LoopsView struct {
	Width    int
	Height   int
	Loops    []api.LoopSummary
	Playing  int
	Selected int

	BorderStyle   lipgloss.Style
	TitleStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	PlayingStyle  lipgloss.Style
	HelpStyle     lipgloss.Style
}

// NewLoopsView creates a new stored-loop list
func NewLoopsView(width, height int) LoopsView {
	return LoopsView{
		Width:   width,
		Height:  height,
		Playing: -1,
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		SelectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Bold(true),
		PlayingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
		HelpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// SetLoops refreshes the list, keeping the selection in range
func (v *LoopsView) SetLoops(loops []api.LoopSummary, playing int) {
	v.Loops = loops
	v.Playing = playing
	if v.Selected >= len(loops) {
		v.Selected = len(loops) - 1
	}
	if v.Selected < 0 {
		v.Selected = 0
	}
}

// SelectLast moves the selection to the newest loop
func (v *LoopsView) SelectLast() {
	if len(v.Loops) > 0 {
		v.Selected = len(v.Loops) - 1
	}
}

// Update handles messages
func (v LoopsView) Update(msg tea.Msg) (LoopsView, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if v.Selected > 0 {
				v.Selected--
			}
		case "down", "j":
			if v.Selected < len(v.Loops)-1 {
				v.Selected++
			}
		}
	}
	return v, nil
}

// View renders the loop list
func (v LoopsView) View() string {
	var sb strings.Builder

	sb.WriteString(v.TitleStyle.Render("🔁 Stored loops"))
	sb.WriteString("\n\n")

	if len(v.Loops) == 0 {
		sb.WriteString("No loops yet. Press [space] to record one.")
	}
	for i, l := range v.Loops {
		marker := "  "
		if i == v.Playing {
			marker = "▶ "
		}
		line := fmt.Sprintf("%s%-10s %ds  %3d events", marker, l.Name, l.Duration, l.Events)
		switch {
		case i == v.Selected:
			sb.WriteString(v.SelectedStyle.Render(line))
		case i == v.Playing:
			sb.WriteString(v.PlayingStyle.Render(line))
		default:
			sb.WriteString(line)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(v.HelpStyle.Render("[p] Play/Stop  [x] Export  [↑↓] Navigate"))

	return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
}
