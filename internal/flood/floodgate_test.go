package flood

import (
	"testing"
	"time"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func newTestFloodgate(limit int) (*Floodgate, *fakeClock) {
	clock := &fakeClock{current: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	fg := New(limit)
	fg.now = clock.now
	return fg, clock
}

func TestFloodgate_Allow_BlocksOverLimit(t *testing.T) {
	fg, _ := newTestFloodgate(3)
	defer fg.Stop()

	for i := range 3 {
		if !fg.Allow("127.0.0.1") {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if fg.Allow("127.0.0.1") {
		t.Error("4th request should be blocked")
	}
}

func TestFloodgate_Allow_SlidingWindow(t *testing.T) {
	fg, clock := newTestFloodgate(2)
	defer fg.Stop()

	fg.Allow("client")
	clock.current = clock.current.Add(30 * time.Second)
	fg.Allow("client")

	if fg.Allow("client") {
		t.Error("Third request inside the window should be blocked")
	}

	clock.current = clock.current.Add(31 * time.Second)
	if !fg.Allow("client") {
		t.Error("Request after the first one left the window should be allowed")
	}
	if fg.Allow("client") {
		t.Error("Window should be full again")
	}
}

func TestFloodgate_Allow_PerClient(t *testing.T) {
	fg, _ := newTestFloodgate(1)
	defer fg.Stop()

	if !fg.Allow("a") || !fg.Allow("b") {
		t.Error("Different clients should have separate limits")
	}
	if fg.Allow("a") {
		t.Error("Client a should be blocked")
	}
}

func TestFloodgate_Allow_Disabled(t *testing.T) {
	fg, _ := newTestFloodgate(0)
	defer fg.Stop()

	for range 100 {
		if !fg.Allow("client") {
			t.Fatal("Disabled floodgate should allow every request")
		}
	}
	if stats := fg.GetStats(); stats.ActiveClients != 0 {
		t.Errorf("Disabled floodgate tracked %d clients", stats.ActiveClients)
	}
}

func TestFloodgate_DropIdle(t *testing.T) {
	fg, clock := newTestFloodgate(5)
	defer fg.Stop()

	fg.Allow("old")
	clock.current = clock.current.Add(idleTimeout + time.Minute)
	fg.Allow("new")

	fg.dropIdle()

	stats := fg.GetStats()
	if stats.ActiveClients != 1 {
		t.Errorf("ActiveClients = %d, want 1", stats.ActiveClients)
	}
	if stats.LimitPerMinute != 5 || stats.WindowSeconds != 60 {
		t.Errorf("GetStats() = %+v", stats)
	}
}

func TestFloodgate_StopTwice(t *testing.T) {
	fg := New(1)
	fg.Stop()
	fg.Stop()
}
