package trigger

import "sync"

// ProcessGuard records which meeting ids have been submitted for
// transcript+analysis fetching this session, guaranteeing at-most-once
// triggering, and bounds retries per meeting. A reservation is taken
// synchronously relative to the eligibility check so two poll cycles cannot
// double-trigger a meeting while the first fetch is in flight.
type ProcessGuard struct {
	mu         sync.Mutex
	processed  map[string]struct{}
	attempts   map[string]int
	maxRetries int
}

// NewProcessGuard creates a guard with the given retry ceiling. A ceiling
// of n permits n retries after the initial attempt; values <= 0 fall back
// to 3.
func NewProcessGuard(maxRetries int) *ProcessGuard {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &ProcessGuard{
		processed:  make(map[string]struct{}),
		attempts:   make(map[string]int),
		maxRetries: maxRetries,
	}
}

// Reserve marks the meeting as submitted. Returns false when the meeting is
// already reserved (in flight, done, or permanently skipped).
func (g *ProcessGuard) Reserve(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.processed[id]; ok {
		return false
	}
	g.processed[id] = struct{}{}
	return true
}

// Release is called when an attempt yielded no usable transcript (empty
// content or fetch error). While the retry counter is below the ceiling the
// reservation is dropped and the counter incremented, permitting a future
// retry; at the ceiling the meeting stays reserved forever so a transcript
// that will never materialize cannot cause a retry storm. Returns whether a
// future retry is permitted.
func (g *ProcessGuard) Release(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.attempts[id] >= g.maxRetries {
		return false
	}
	g.attempts[id]++
	delete(g.processed, id)
	return true
}

// Processed reports whether the meeting currently holds a reservation.
func (g *ProcessGuard) Processed(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.processed[id]
	return ok
}

// Attempts returns the retry counter for the meeting.
func (g *ProcessGuard) Attempts(id string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attempts[id]
}

// Clear resets all reservations and counters, as a full reload would.
func (g *ProcessGuard) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.processed = make(map[string]struct{})
	g.attempts = make(map[string]int)
}
