package directory

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// minPresenceQueryLen gates presence-only matches: a single typed
// character would fan out to every connected participant.
const minPresenceQueryLen = 2

// Suggestion is one autocomplete candidate for a compose target
type Suggestion struct {
	Identity   string `json:"identity"`
	IsReserved bool   `json:"is_reserved"`
	IsOnline   bool   `json:"is_online"`
}

// Suggest returns ranked compose-target suggestions for a partial
// query, computed against one consistent snapshot of the tracker
// state.
//
// An empty query lists every reserved identity, annotated with live
// online status, in reserved order. Otherwise matching is
// case-insensitive substring: reserved identities match at any query
// length, present-only identities require at least two characters.
// Duplicates collapse with reserved status winning, and a suggestion
// equal to the fully-typed target is dropped.
func (t *Tracker) Suggest(query, typed string) []Suggestion {
	t.mu.RLock()
	reserved := make([]string, len(t.reserved))
	copy(reserved, t.reserved)
	present := make([]string, 0, len(t.present))
	for id := range t.present {
		present = append(present, id)
	}
	presentSet := make(map[string]struct{}, len(present))
	for id := range t.present {
		presentSet[id] = struct{}{}
	}
	t.mu.RUnlock()

	sort.Strings(present) // stable discovery order for presence matches

	online := func(id string) bool {
		_, ok := presentSet[id]
		return ok
	}

	var out []Suggestion
	seen := make(map[string]struct{})

	add := func(id string, isReserved bool) {
		if id == typed {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, Suggestion{Identity: id, IsReserved: isReserved, IsOnline: online(id)})
	}

	if query == "" {
		for _, id := range reserved {
			add(id, true)
		}
		return out
	}

	q := strings.ToLower(query)

	for _, id := range reserved {
		if strings.Contains(strings.ToLower(id), q) {
			add(id, true)
		}
	}

	if utf8.RuneCountInString(query) >= minPresenceQueryLen {
		for _, id := range present {
			if _, isReserved := t.reservedSet[id]; isReserved {
				continue // already considered above, reserved wins
			}
			if strings.Contains(strings.ToLower(id), q) {
				add(id, false)
			}
		}
	}

	return out
}
