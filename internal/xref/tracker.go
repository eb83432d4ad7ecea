package xref

import "sync"

// Tracker is the build-scoped set of fully qualified target keys that have
// already received a real anchor id. A key is claimed at most once; claim
// order must equal spine order, so the link pass that consults the tracker
// is serialized even though chapter rendering is not.
//
// Trackers are created per build invocation and discarded with it; they are
// never package-level state.
type Tracker struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: map[string]struct{}{}}
}

// Claim records the key and reports whether this was its first sighting.
// Only the first claimant may emit the real anchor id.
func (t *Tracker) Claim(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.seen[key]; dup {
		return false
	}
	t.seen[key] = struct{}{}
	t.order = append(t.order, key)
	return true
}

// Seen reports whether the key has been claimed.
func (t *Tracker) Seen(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[key]
	return ok
}

// Keys returns the claimed keys in claim order.
func (t *Tracker) Keys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}
