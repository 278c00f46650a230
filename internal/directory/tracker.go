package directory

import (
	"sort"
	"sync"
)

// Tracker maintains the live set of reachable recipient identities:
// a fixed reserved list from configuration unioned with the
// identities currently present on the hub. The union is recomputed
// synchronously on every presence change; nothing here survives a
// process restart.
type Tracker struct {
	mu          sync.RWMutex
	reserved    []string // configuration order, drives autocomplete order
	reservedSet map[string]struct{}
	present     map[string]struct{}
}

// NewTracker creates a tracker with the configured reserved identities
func NewTracker(reserved []string) *Tracker {
	t := &Tracker{
		reserved:    make([]string, 0, len(reserved)),
		reservedSet: make(map[string]struct{}, len(reserved)),
		present:     make(map[string]struct{}),
	}
	for _, id := range reserved {
		if id == "" {
			continue
		}
		if _, dup := t.reservedSet[id]; dup {
			continue
		}
		t.reserved = append(t.reserved, id)
		t.reservedSet[id] = struct{}{}
	}
	return t
}

// SetPresent replaces the present set with the identities currently
// connected. Called from the hub on every join and leave.
func (t *Tracker) SetPresent(identities []string) {
	present := make(map[string]struct{}, len(identities))
	for _, id := range identities {
		if id != "" {
			present[id] = struct{}{}
		}
	}

	t.mu.Lock()
	t.present = present
	t.mu.Unlock()
}

// Reachable returns the current reachable set: reserved identities in
// configuration order followed by present-only identities sorted for
// a stable result.
func (t *Tracker) Reachable() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.reserved)+len(t.present))
	out = append(out, t.reserved...)

	extra := make([]string, 0, len(t.present))
	for id := range t.present {
		if _, ok := t.reservedSet[id]; !ok {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// IsReachable reports whether target is reserved or currently present
func (t *Tracker) IsReachable(target string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.reservedSet[target]; ok {
		return true
	}
	_, ok := t.present[target]
	return ok
}

// IsOnline reports whether target is currently present
func (t *Tracker) IsOnline(target string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.present[target]
	return ok
}

// CanSend reports whether viewer may address target: target must be
// reachable, or the viewer themselves (self-send is permitted).
func (t *Tracker) CanSend(target, viewer string) bool {
	if target == viewer {
		return true
	}
	return t.IsReachable(target)
}
