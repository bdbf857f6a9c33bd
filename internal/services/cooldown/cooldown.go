// Package cooldown throttles repeated user actions with self-expiring
// per-key entries.
package cooldown

import (
	"sync"
	"time"
)

type entry struct {
	expiresAt time.Time
	timer     *time.Timer
}

// Tracker keeps one active cooldown per key.
//
// Correctness comes from the wall-clock comparison in Check; the AfterFunc
// removal only keeps the map from growing without bound.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]entry

	now func() time.Time
}

func New() *Tracker {
	return &Tracker{
		entries: map[string]entry{},
		now:     time.Now,
	}
}

// Check reports the remaining cooldown for key, or false when none is
// active. An entry whose expiry has passed reports false even if its
// removal callback has not run yet.
func (t *Tracker) Check(key string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		return 0, false
	}
	remaining := e.expiresAt.Sub(t.now())
	if remaining <= 0 {
		return 0, false
	}
	return remaining, true
}

// Arm starts (or restarts) a cooldown for key lasting d.
func (t *Tracker) Arm(key string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.entries[key]; ok && prev.timer != nil {
		prev.timer.Stop()
	}
	expiresAt := t.now().Add(d)
	timer := time.AfterFunc(d, func() {
		t.mu.Lock()
		// A newer Arm may have replaced the entry; only remove our own.
		if cur, ok := t.entries[key]; ok && !cur.expiresAt.After(expiresAt) {
			delete(t.entries, key)
		}
		t.mu.Unlock()
	})
	t.entries[key] = entry{expiresAt: expiresAt, timer: timer}
}

// Stop cancels all removal timers. Entries are left in place; the tracker
// is not meant to be reused after Stop.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}

// Len reports the number of tracked entries, expired or not.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
