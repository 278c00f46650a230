package mailbox

import "github.com/wiremail/wiremail-backend/internal/domain"

// Visible returns the subset of records the viewer may ever observe:
// records where the viewer is the sender or the recipient.
//
// This is the single access-control enforcement point. It runs before
// any folder, search or ordering logic on every snapshot of the shared
// collection, so downstream projections can trust their input and a
// bug in a view can never leak a third party's message.
func Visible(records []domain.Message, viewer string) []domain.Message {
	visible := make([]domain.Message, 0, len(records))
	for _, r := range records {
		if r.IsParty(viewer) {
			visible = append(visible, r)
		}
	}
	return visible
}
