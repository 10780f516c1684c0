// Package midiin maps note-on messages from a MIDI controller to pad hits.
package midiin

import (
	"fmt"
	"log/slog"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/jscyril/soundboard/internal/pads"
)

// Input listens on one MIDI input port
type Input struct {
	base     uint8
	onPad    func(index int)
	log      *slog.Logger
	stopFunc func()
}

// NewInput creates an input that is not yet connected to a port
func NewInput(base uint8, onPad func(index int), log *slog.Logger) *Input {
	if log == nil {
		log = slog.Default()
	}
	return &Input{base: base, onPad: onPad, log: log}
}

// Open finds the named input port and starts listening. The driver must have been
// registered by importing it in main.
func Open(port string, base uint8, onPad func(index int), log *slog.Logger) (*Input, error) {
	in, err := gomidi.FindInPort(port)
	if err != nil {
		return nil, fmt.Errorf("find midi port %q: %w", port, err)
	}

	input := NewInput(base, onPad, log)
	if err := input.Listen(in); err != nil {
		return nil, err
	}
	input.log.Info("midi input open", "port", in.String(), "base_note", base)
	return input, nil
}

// Listen starts delivering messages from in
func (i *Input) Listen(in drivers.In) error {
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		i.Handle(msg)
	})
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	i.stopFunc = stop
	return nil
}

// Handle triggers the pad for a note-on message. It reports whether a pad was hit.
func (i *Input) Handle(msg gomidi.Message) bool {
	var channel, note, velocity uint8
	if !msg.GetNoteOn(&channel, &note, &velocity) || velocity == 0 {
		return false
	}
	idx, ok := pads.ForNote(note, i.base)
	if !ok {
		i.log.Debug("midi note outside pad range", "note", note, "channel", channel)
		return false
	}
	i.onPad(idx)
	return true
}

// Close stops listening
func (i *Input) Close() error {
	if i.stopFunc != nil {
		i.stopFunc()
		i.stopFunc = nil
	}
	return nil
}

// Ports lists the names of the available input ports
func Ports() []string {
	ins := gomidi.GetInPorts()
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names
}
