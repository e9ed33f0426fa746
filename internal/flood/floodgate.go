// Package flood limits how often a single client may issue requests.
package flood

import (
	"sync"
	"time"
)

const (
	// windowDuration is the sliding window requests are counted in
	windowDuration = 60 * time.Second
	// cleanupInterval is how often idle clients are dropped
	cleanupInterval = 10 * time.Minute
	// idleTimeout is how long a client may stay silent before it is dropped
	idleTimeout = 10 * time.Minute
)

// Floodgate is a per-client sliding window rate limiter. A limit of zero or
// less lets every request through.
type Floodgate struct {
	limitPerMinute int
	clients        map[string]*clientEntry
	mutex          sync.Mutex
	now            func() time.Time
	stopOnce       sync.Once
	stopCleanup    chan struct{}
}

type clientEntry struct {
	requests []time.Time
	lastSeen time.Time
}

// New creates a Floodgate and starts its idle client cleanup.
func New(limitPerMinute int) *Floodgate {
	fg := &Floodgate{
		limitPerMinute: limitPerMinute,
		clients:        make(map[string]*clientEntry),
		now:            time.Now,
		stopCleanup:    make(chan struct{}),
	}

	go fg.cleanup()

	return fg
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (fg *Floodgate) Stop() {
	fg.stopOnce.Do(func() { close(fg.stopCleanup) })
}

// Allow records a request from client and reports whether it is within the limit.
// Rejected requests are not counted.
func (fg *Floodgate) Allow(client string) bool {
	if fg.limitPerMinute <= 0 {
		return true
	}

	now := fg.now()

	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	entry, exists := fg.clients[client]
	if !exists {
		entry = &clientEntry{requests: make([]time.Time, 0, fg.limitPerMinute+1)}
		fg.clients[client] = entry
	}
	entry.lastSeen = now

	windowStart := now.Add(-windowDuration)
	recent := entry.requests[:0]
	for _, ts := range entry.requests {
		if ts.After(windowStart) {
			recent = append(recent, ts)
		}
	}
	entry.requests = recent

	if len(entry.requests) >= fg.limitPerMinute {
		return false
	}

	entry.requests = append(entry.requests, now)
	return true
}

func (fg *Floodgate) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fg.dropIdle()
		case <-fg.stopCleanup:
			return
		}
	}
}

func (fg *Floodgate) dropIdle() {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	cutoff := fg.now().Add(-idleTimeout)
	for client, entry := range fg.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(fg.clients, client)
		}
	}
}

// GetStats returns the current limiter state.
func (fg *Floodgate) GetStats() Stats {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	return Stats{
		ActiveClients:  len(fg.clients),
		LimitPerMinute: fg.limitPerMinute,
		WindowSeconds:  int(windowDuration.Seconds()),
	}
}

type Stats struct {
	ActiveClients  int `json:"active_clients"`
	LimitPerMinute int `json:"limit_per_minute"`
	WindowSeconds  int `json:"window_seconds"`
}
