package midiin

import (
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
)

func TestHandle(t *testing.T) {
	tests := []struct {
		name    string
		msg     gomidi.Message
		wantHit bool
		wantPad int
	}{
		{"first pad", gomidi.NoteOn(9, 36, 100), true, 0},
		{"last pad", gomidi.NoteOn(0, 44, 64), true, 8},
		{"below range", gomidi.NoteOn(9, 35, 100), false, 0},
		{"above range", gomidi.NoteOn(9, 45, 100), false, 0},
		{"zero velocity", gomidi.NoteOn(9, 36, 0), false, 0},
		{"note off", gomidi.NoteOff(9, 36), false, 0},
		{"control change", gomidi.ControlChange(0, 7, 100), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := -1
			in := NewInput(36, func(i int) { hit = i }, nil)

			got := in.Handle(tt.msg)
			if got != tt.wantHit {
				t.Fatalf("Handle() = %v, want %v", got, tt.wantHit)
			}
			if tt.wantHit && hit != tt.wantPad {
				t.Errorf("pad = %d, want %d", hit, tt.wantPad)
			}
			if !tt.wantHit && hit != -1 {
				t.Errorf("pad %d triggered unexpectedly", hit)
			}
		})
	}
}

func TestCloseWithoutListen(t *testing.T) {
	in := NewInput(36, func(int) {}, nil)
	if err := in.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
