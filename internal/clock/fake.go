package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manually advanced Clock for deterministic tests.
// Callbacks run synchronously inside Advance, in deadline order.
type Fake struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer

	// LeakyStop makes Stop report success without removing the timer, modelling a
	// callback that was already queued when it was cancelled.
	LeakyStop bool
}

type fakeTimer struct {
	clock *Fake
	when  time.Duration
	seq   int
	fn    func()
	done  bool
}

// NewFake creates a fake clock at instant zero
func NewFake() *Fake {
	return &Fake{}
}

// Now returns the current fake instant in seconds
func (f *Fake) Now() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now.Seconds()
}

// AfterFunc registers f to run once the clock has advanced by d
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	if d < 0 {
		d = 0
	}
	f.seq++
	t := &fakeTimer{clock: f, when: f.now + d, seq: f.seq, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward, firing every timer that falls due on the way.
// Timers registered by callbacks fire too if their deadline is inside the window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now + d
	f.mu.Unlock()

	for {
		f.mu.Lock()
		t := f.popDue(target)
		if t == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = t.when
		f.mu.Unlock()

		t.fn()
	}
}

// AdvanceSeconds is Advance for float second counts
func (f *Fake) AdvanceSeconds(s float64) {
	f.Advance(Seconds(s))
}

// Pending returns the number of timers that have not fired or been stopped
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// popDue removes and returns the earliest timer due at or before target
func (f *Fake) popDue(target time.Duration) *fakeTimer {
	if len(f.timers) == 0 {
		return nil
	}
	sort.SliceStable(f.timers, func(i, j int) bool {
		if f.timers[i].when != f.timers[j].when {
			return f.timers[i].when < f.timers[j].when
		}
		return f.timers[i].seq < f.timers[j].seq
	})
	t := f.timers[0]
	if t.when > target {
		return nil
	}
	f.timers = f.timers[1:]
	t.done = true
	return t
}

func (t *fakeTimer) Stop() bool {
	f := t.clock
	f.mu.Lock()
	defer f.mu.Unlock()

	if t.done {
		return false
	}
	if f.LeakyStop {
		return true
	}
	for i, pending := range f.timers {
		if pending == t {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			break
		}
	}
	t.done = true
	return true
}
