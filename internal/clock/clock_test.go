package clock

import (
	"testing"
	"time"
)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	c := NewFake()
	var order []string

	c.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	c.AfterFunc(time.Second, func() { order = append(order, "a") })
	c.AfterFunc(5*time.Second, func() { order = append(order, "c") })

	c.Advance(3 * time.Second)

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("fired %v, want [a b]", order)
	}
	if got := c.Now(); got != 3 {
		t.Errorf("Now() = %v, want 3", got)
	}
	if got := c.Pending(); got != 1 {
		t.Errorf("Pending() = %d, want 1", got)
	}
}

func TestFakeCallbackSeesDeadline(t *testing.T) {
	c := NewFake()
	var seen float64
	c.AfterFunc(1500*time.Millisecond, func() { seen = c.Now() })

	c.Advance(4 * time.Second)

	if seen != 1.5 {
		t.Errorf("callback saw Now() = %v, want 1.5", seen)
	}
}

func TestFakeChainedTimers(t *testing.T) {
	c := NewFake()
	var fired []float64

	var tick func()
	tick = func() {
		fired = append(fired, c.Now())
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(3 * time.Second)

	if len(fired) != 3 {
		t.Fatalf("fired %d times, want 3: %v", len(fired), fired)
	}
	for i, at := range fired {
		if want := float64(i + 1); at != want {
			t.Errorf("tick %d at %v, want %v", i, at, want)
		}
	}
}

func TestFakeStop(t *testing.T) {
	c := NewFake()
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop on a pending timer should return true")
	}
	if timer.Stop() {
		t.Error("second Stop should return false")
	}

	c.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestFakeLeakyStop(t *testing.T) {
	c := NewFake()
	c.LeakyStop = true
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	timer.Stop()
	c.Advance(2 * time.Second)

	if !fired {
		t.Error("leaky stop should still fire the callback")
	}
}

func TestSystemClockMonotonic(t *testing.T) {
	c := NewSystem()
	a := c.Now()
	b := c.Now()
	if b < a {
		t.Errorf("Now went backwards: %v then %v", a, b)
	}

	done := make(chan struct{})
	c.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("system timer did not fire")
	}
}

func TestSeconds(t *testing.T) {
	if got := Seconds(1.5); got != 1500*time.Millisecond {
		t.Errorf("Seconds(1.5) = %v", got)
	}
}
