package mailbox

import (
	"sort"
	"strings"

	"github.com/wiremail/wiremail-backend/internal/domain"
)

// Project derives a folder + search view from an already
// visibility-filtered record set. It is pure and idempotent: it never
// mutates its input and projecting a projection yields the same
// sequence.
//
// Folder and search predicates are ANDed; search matches are
// case-insensitive substring checks against subject, content or
// sender. Final order is created_at descending with the stream
// insertion sequence breaking ties.
func Project(visible []domain.Message, viewer string, folder Folder, query string) []domain.Message {
	out := make([]domain.Message, 0, len(visible))
	q := strings.ToLower(query)

	for _, r := range visible {
		if !inFolder(&r, viewer, folder) {
			continue
		}
		if q != "" && !matchesQuery(&r, q) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})

	return out
}

func inFolder(r *domain.Message, viewer string, folder Folder) bool {
	switch folder {
	case FolderInbox:
		return r.Recipient == viewer
	case FolderSent:
		return r.Sender == viewer
	case FolderStarred:
		return r.Starred
	default:
		return true
	}
}

func matchesQuery(r *domain.Message, q string) bool {
	return strings.Contains(strings.ToLower(r.Subject), q) ||
		strings.Contains(strings.ToLower(r.Content), q) ||
		strings.Contains(strings.ToLower(r.Sender), q)
}

// Counters holds the derived folder badge counts for one viewer
type Counters struct {
	Unread  int `json:"unread_count"`
	Starred int `json:"starred_count"`
}

// Count recomputes badge counters over the visibility-filtered set.
// Unread counts records addressed to the viewer that are not yet
// read; starred counts every starred record the viewer can see.
func Count(visible []domain.Message, viewer string) Counters {
	var c Counters
	for _, r := range visible {
		if r.Recipient == viewer && !r.Read {
			c.Unread++
		}
		if r.Starred {
			c.Starred++
		}
	}
	return c
}
