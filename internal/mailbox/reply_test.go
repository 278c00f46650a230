package mailbox

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiremail/wiremail-backend/internal/domain"
)

func TestBuildReply(t *testing.T) {
	original := &domain.Message{
		ID:        "orig-1",
		Sender:    "bob",
		Recipient: "alice",
		Subject:   "Hi",
		Content:   "line1\nline2",
		CreatedAt: time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC),
	}

	draft := BuildReply(original)

	assert.Equal(t, "bob", draft.To)
	assert.Equal(t, "Re: Hi", draft.Subject)
	require.NotNil(t, draft.ReplyTo)
	assert.Equal(t, "orig-1", *draft.ReplyTo)

	require.NotNil(t, draft.OriginalContent)
	quoted := *draft.OriginalContent
	assert.Contains(t, quoted, "On Mar 5, 2026 at 2:30 PM, bob wrote:")
	assert.Contains(t, quoted, "> line1\n> line2")

	var quotedLines int
	for _, line := range strings.Split(quoted, "\n") {
		if strings.HasPrefix(line, "> ") {
			quotedLines++
		}
	}
	assert.Equal(t, 2, quotedLines)
}

func TestBuildReply_PrefixesAccumulate(t *testing.T) {
	original := &domain.Message{ID: "1", Sender: "bob", Subject: "Re: Hi", CreatedAt: time.Now()}
	draft := BuildReply(original)
	assert.Equal(t, "Re: Re: Hi", draft.Subject)
}

func TestBuildReply_QuoteIsPointInTimeCapture(t *testing.T) {
	original := &domain.Message{
		ID: "1", Sender: "bob", Subject: "Hi",
		Content:   "before edit",
		CreatedAt: time.Now(),
	}
	draft := BuildReply(original)

	original.Content = "after edit"
	assert.Contains(t, *draft.OriginalContent, "> before edit")
	assert.NotContains(t, *draft.OriginalContent, "after edit")
}
