// Package pads holds the 3x3 pad assignment table and the input mappings onto it.
package pads

import (
	"sync"

	"github.com/jscyril/soundboard/api"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

// Count is the number of pads on the grid
const Count = 9

// Table maps pads to sounds
type Table struct {
	mu    sync.RWMutex
	slots [Count]*api.SoundItem
}

// NewTable creates a table with every pad empty
func NewTable() *Table {
	return &Table{}
}

// Assign puts item on pad index; a nil item empties the pad
func (t *Table) Assign(index int, item *api.SoundItem) error {
	if index < 0 || index >= Count {
		return sberrors.ErrPadOutOfRange
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if item == nil {
		t.slots[index] = nil
		return nil
	}
	copied := *item
	t.slots[index] = &copied
	return nil
}

// Unassign empties pad index
func (t *Table) Unassign(index int) error {
	return t.Assign(index, nil)
}

// Get returns the sound on pad index
func (t *Table) Get(index int) (api.SoundItem, bool) {
	if index < 0 || index >= Count {
		return api.SoundItem{}, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.slots[index] == nil {
		return api.SoundItem{}, false
	}
	return *t.slots[index], true
}

// Slots returns a copy of every pad; empty pads are nil
func (t *Table) Slots() [Count]*api.SoundItem {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out [Count]*api.SoundItem
	for i, s := range t.slots {
		if s != nil {
			copied := *s
			out[i] = &copied
		}
	}
	return out
}

// SoundIDs returns the ids of all assigned sounds in pad order
func (t *Table) SoundIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, Count)
	for _, s := range t.slots {
		if s != nil {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
