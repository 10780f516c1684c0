package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jscyril/soundboard/api"
	"github.com/jscyril/soundboard/internal/ui/components"
)

// TransportView displays the recorder state, countdown and metronome
type TransportView struct {
	Width     int
	Height    int
	Status    api.Status
	Countdown components.CountdownBar
	Beat      bool // toggled by metronome ticks

	StateStyle   lipgloss.Style
	MessageStyle lipgloss.Style
	InfoStyle    lipgloss.Style
	BeatStyle    lipgloss.Style
	BorderStyle  lipgloss.Style
}

// NewTransportView creates a new transport view
func NewTransportView(width, height int) TransportView {
	return TransportView{
		Width:     width,
		Height:    height,
		Countdown: components.NewCountdownBar(width - 8),
		StateStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		MessageStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
		InfoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		BeatStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2),
	}
}

// SetStatus updates the view from a core snapshot
func (v *TransportView) SetStatus(s api.Status) {
	v.Status = s
	v.Countdown.Width = v.Width - 8
	v.Countdown.Set(s.Remaining, s.ActiveDuration, s.HasRemaining, s.RemainingText())
}

// stateIcon returns the glyph for a transport state
func stateIcon(s api.TransportState) string {
	switch s {
	case api.StatePreRoll:
		return "◔"
	case api.StateRecording:
		return "●"
	case api.StatePlayback:
		return "▶"
	default:
		return "■"
	}
}

// View renders the transport view
func (v TransportView) View() string {
	var sb strings.Builder
	s := v.Status

	sb.WriteString(v.StateStyle.Render(fmt.Sprintf("%s %s", stateIcon(s.State), strings.ToUpper(s.State.String()))))
	if s.State == api.StateRecording {
		sb.WriteString(v.InfoStyle.Render(fmt.Sprintf("  cycle %d", s.Cycle)))
	}
	if s.State == api.StatePreRoll && s.PreRollLeft > 0 {
		sb.WriteString(v.BeatStyle.Render(fmt.Sprintf("  %d", s.PreRollLeft)))
	}
	sb.WriteString("\n")

	msg := s.Message
	if msg == "" {
		msg = "Ready."
	}
	sb.WriteString(v.MessageStyle.Render(msg))
	sb.WriteString("\n")

	sb.WriteString(v.Countdown.View())
	sb.WriteString("\n")

	metro := "off"
	if s.MetronomeEnabled {
		metro = "on"
		if v.Beat {
			metro += " " + v.BeatStyle.Render("♩")
		}
	}
	audio := "locked"
	if s.Ready {
		audio = "ready"
	}
	sb.WriteString(v.InfoStyle.Render(fmt.Sprintf(
		"Loop: %ds   Tempo: %d BPM   Metronome: %s   Audio: %s",
		s.LoopDuration, s.BPM, metro, audio,
	)))

	return v.BorderStyle.Width(v.Width - 4).Render(sb.String())
}
