package pads

import (
	"errors"
	"testing"

	"github.com/jscyril/soundboard/api"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

func TestAssignAndUnassign(t *testing.T) {
	table := NewTable()
	dog := &api.SoundItem{ID: "dog", Description: "Dog"}

	if err := table.Assign(4, dog); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	got, ok := table.Get(4)
	if !ok || got.ID != "dog" {
		t.Fatalf("Get(4) = %+v, %v", got, ok)
	}

	dog.ID = "mutated"
	if got, _ := table.Get(4); got.ID != "dog" {
		t.Error("table should hold its own copy of the item")
	}

	if err := table.Unassign(4); err != nil {
		t.Fatalf("Unassign: %v", err)
	}
	if _, ok := table.Get(4); ok {
		t.Error("pad 4 should be empty after Unassign")
	}
}

func TestAssignOutOfRange(t *testing.T) {
	table := NewTable()
	for _, idx := range []int{-1, Count, 42} {
		if err := table.Assign(idx, &api.SoundItem{ID: "x"}); !errors.Is(err, sberrors.ErrPadOutOfRange) {
			t.Errorf("Assign(%d) error = %v", idx, err)
		}
		if _, ok := table.Get(idx); ok {
			t.Errorf("Get(%d) should report empty", idx)
		}
	}
}

func TestSlotsAndSoundIDs(t *testing.T) {
	table := NewTable()
	table.Assign(0, &api.SoundItem{ID: "cat"})
	table.Assign(8, &api.SoundItem{ID: "cow"})

	slots := table.Slots()
	if slots[0] == nil || slots[8] == nil || slots[4] != nil {
		t.Fatalf("Slots() = %v", slots)
	}
	slots[0].ID = "changed"
	if got, _ := table.Get(0); got.ID != "cat" {
		t.Error("Slots should return copies")
	}

	ids := table.SoundIDs()
	if len(ids) != 2 || ids[0] != "cat" || ids[1] != "cow" {
		t.Errorf("SoundIDs() = %v", ids)
	}
}

func TestForKey(t *testing.T) {
	tests := []struct {
		key  string
		pad  int
		want bool
	}{
		{"e", 0, true},
		{"f", 4, true},
		{"b", 8, true},
		{"7", 0, true},
		{"5", 4, true},
		{"3", 8, true},
		{"x", 0, false},
		{"0", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			pad, ok := ForKey(tt.key)
			if ok != tt.want || (ok && pad != tt.pad) {
				t.Errorf("ForKey(%q) = %d, %v", tt.key, pad, ok)
			}
		})
	}
}

func TestHint(t *testing.T) {
	if Hint(0) != "E / 7" || Hint(8) != "B / 3" {
		t.Errorf("unexpected hints %q %q", Hint(0), Hint(8))
	}
	if Hint(9) != "" {
		t.Error("out of range hint should be empty")
	}
}

func TestForNote(t *testing.T) {
	if pad, ok := ForNote(36, DefaultBaseNote); !ok || pad != 0 {
		t.Errorf("ForNote(36) = %d, %v", pad, ok)
	}
	if pad, ok := ForNote(44, DefaultBaseNote); !ok || pad != 8 {
		t.Errorf("ForNote(44) = %d, %v", pad, ok)
	}
	if _, ok := ForNote(45, DefaultBaseNote); ok {
		t.Error("note past the grid should not map")
	}
	if _, ok := ForNote(35, DefaultBaseNote); ok {
		t.Error("note below base should not map")
	}
}
