package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/jscyril/soundboard/internal/config"
)

// Key builds a binding whose help label is its first key
func Key(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(displayKey(keyboardKey[0]), help))
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

// KeyMap holds the global bindings. Pad keys are fixed and handled separately.
type KeyMap struct {
	Record    key.Binding
	Play      key.Binding
	Export    key.Binding
	Metronome key.Binding
	TempoUp   key.Binding
	TempoDown key.Binding
	Duration  key.Binding
	Assign    key.Binding
	Clear     key.Binding
	NextView  key.Binding
	Back      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// NewKeyMap builds the bindings from configuration
func NewKeyMap(km config.KeyMap) KeyMap {
	return KeyMap{
		Record:    Key("record/stop", km.Record),
		Play:      Key("play/stop loop", km.Play),
		Export:    Key("export loop", km.Export),
		Metronome: Key("metronome", km.Metronome),
		TempoUp:   Key("tempo +5", km.TempoUp, "="),
		TempoDown: Key("tempo -5", km.TempoDown, "_"),
		Duration:  Key("4s/8s loop", km.Duration),
		Assign:    Key("assign pad", km.Assign, "enter"),
		Clear:     Key("clear pad", "backspace", "delete"),
		NextView:  Key("next view", "tab"),
		Back:      Key("back", "esc"),
		Help:      Key("help", km.Help),
		Quit:      Key("quit", km.Quit, "ctrl+c"),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Play, k.Metronome, k.NextView, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Record, k.Play, k.Export, k.Duration},
		{k.Metronome, k.TempoUp, k.TempoDown},
		{k.Assign, k.Clear, k.NextView, k.Back},
		{k.Help, k.Quit},
	}
}
