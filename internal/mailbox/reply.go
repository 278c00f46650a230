package mailbox

import (
	"fmt"
	"strings"

	"github.com/wiremail/wiremail-backend/internal/domain"
)

const quoteMarker = "> "

// BuildReply constructs a compose draft replying to the given record.
// The quoted block is a point-in-time capture of the original body; it
// is stored verbatim on the new record at send time and never
// recomputed, so later edits to the original cannot rewrite a quote
// already sent.
//
// Subjects are prefixed with "Re: " by plain concatenation; multi-hop
// replies accumulate prefixes.
func BuildReply(original *domain.Message) *domain.ComposeDraft {
	id := original.ID
	quoted := quote(original)

	return &domain.ComposeDraft{
		To:              original.Sender,
		Subject:         "Re: " + original.Subject,
		ReplyTo:         &id,
		OriginalContent: &quoted,
	}
}

func quote(original *domain.Message) string {
	created := original.CreatedAt
	attribution := fmt.Sprintf("On %s at %s, %s wrote:",
		created.Format("Jan 2, 2006"),
		created.Format("3:04 PM"),
		original.Sender)

	lines := strings.Split(original.Content, "\n")
	for i, line := range lines {
		lines[i] = quoteMarker + line
	}

	return "\n\n" + attribution + "\n" + strings.Join(lines, "\n")
}
