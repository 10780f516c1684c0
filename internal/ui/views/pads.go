package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/soundboard/api"
	"github.com/jscyril/soundboard/internal/pads"
)

// PadsView draws the 3x3 pad grid
type PadsView struct {
	Width    int
	Height   int
	Slots    [pads.Count]*api.SoundItem
	Selected int
	Lit      int // pad flashed by the last hit, -1 for none

	PadStyle      lipgloss.Style
	SelectedStyle lipgloss.Style
	LitStyle      lipgloss.Style
	EmptyStyle    lipgloss.Style
	HintStyle     lipgloss.Style
}

// NewPadsView creates a new pad grid
func NewPadsView(width, height int) PadsView {
	pad := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Width(18).
		Height(3).
		Align(lipgloss.Center)
	return PadsView{
		Width:         width,
		Height:        height,
		Lit:           -1,
		PadStyle:      pad,
		SelectedStyle: pad.BorderForeground(lipgloss.Color("212")),
		LitStyle:      pad.BorderForeground(lipgloss.Color("214")).Bold(true),
		EmptyStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HintStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
}

// Update moves the pad cursor
func (v PadsView) Update(msg tea.Msg) (PadsView, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		row, col := v.Selected/3, v.Selected%3
		switch msg.String() {
		case "up":
			if row > 0 {
				row--
			}
		case "down":
			if row < 2 {
				row++
			}
		case "left":
			if col > 0 {
				col--
			}
		case "right":
			if col < 2 {
				col++
			}
		}
		v.Selected = row*3 + col
	}
	return v, nil
}

func (v PadsView) renderPad(i int) string {
	var label string
	if item := v.Slots[i]; item != nil {
		label = item.Description
		if label == "" {
			label = item.ID
		}
		if len(label) > 16 {
			label = label[:13] + "..."
		}
	} else {
		label = v.EmptyStyle.Render("empty")
	}
	content := label + "\n\n" + v.HintStyle.Render(pads.Hint(i))

	switch {
	case i == v.Lit:
		return v.LitStyle.Render(content)
	case i == v.Selected:
		return v.SelectedStyle.Render(content)
	default:
		return v.PadStyle.Render(content)
	}
}

// View renders the grid
func (v PadsView) View() string {
	rows := make([]string, 0, 3)
	for r := 0; r < 3; r++ {
		cells := make([]string, 3)
		for c := 0; c < 3; c++ {
			cells[c] = v.renderPad(r*3 + c)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	sb.WriteString("\n")
	sb.WriteString(v.HintStyle.Render("[arrows] Select pad  [a] Assign  [backspace] Clear"))
	return sb.String()
}
