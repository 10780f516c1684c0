package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CountdownBar shows how much of the running loop window is left
type CountdownBar struct {
	Width       int
	Remaining   float64
	Total       int
	Active      bool
	Label       string
	BarChar     string
	EmptyChar   string
	Style       lipgloss.Style
	FilledStyle lipgloss.Style
	EmptyStyle  lipgloss.Style
}

// NewCountdownBar creates a new countdown bar
func NewCountdownBar(width int) CountdownBar {
	return CountdownBar{
		Width:       width,
		Label:       "--",
		BarChar:     "█",
		EmptyChar:   "░",
		Style:       lipgloss.NewStyle(),
		FilledStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		EmptyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Set updates the bar; label is the text shown next to it
func (p *CountdownBar) Set(remaining float64, total int, active bool, label string) {
	p.Remaining = remaining
	p.Total = total
	p.Active = active
	p.Label = label
}

// Fraction returns the elapsed share of the window, 0 when idle
func (p CountdownBar) Fraction() float64 {
	if !p.Active || p.Total <= 0 {
		return 0
	}
	f := 1 - p.Remaining/float64(p.Total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// View renders the countdown bar
func (p CountdownBar) View() string {
	var sb strings.Builder

	barWidth := p.Width - 14 // room for the label
	if barWidth < 10 {
		barWidth = 10
	}

	filled := int(float64(barWidth) * p.Fraction())
	empty := barWidth - filled

	sb.WriteString(p.FilledStyle.Render(strings.Repeat(p.BarChar, filled)))
	sb.WriteString(p.EmptyStyle.Render(strings.Repeat(p.EmptyChar, empty)))
	sb.WriteString(" ")
	sb.WriteString(p.Label)

	return p.Style.Render(sb.String())
}
