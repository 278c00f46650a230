package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wiremail/wiremail-backend/internal/domain"
)

func msg(id, sender, recipient string, opts ...func(*domain.Message)) domain.Message {
	m := domain.Message{
		ID:        id,
		Sender:    sender,
		Recipient: recipient,
		Subject:   "subject " + id,
		Content:   "content " + id,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func at(t time.Time) func(*domain.Message)   { return func(m *domain.Message) { m.CreatedAt = t } }
func seq(n int64) func(*domain.Message)      { return func(m *domain.Message) { m.Seq = n } }
func starred() func(*domain.Message)         { return func(m *domain.Message) { m.Starred = true } }
func read() func(*domain.Message)            { return func(m *domain.Message) { m.Read = true } }
func subject(s string) func(*domain.Message) { return func(m *domain.Message) { m.Subject = s } }
func content(s string) func(*domain.Message) { return func(m *domain.Message) { m.Content = s } }

func TestVisible_SenderOrRecipientOnly(t *testing.T) {
	record := msg("1", "alice", "bob")

	tests := []struct {
		name    string
		viewer  string
		visible bool
	}{
		{"sender sees it", "alice", true},
		{"recipient sees it", "bob", true},
		{"third party never sees it", "mallory", false},
		{"empty viewer sees nothing", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Visible([]domain.Message{record}, tt.viewer)
			if tt.visible {
				assert.Len(t, got, 1)
				assert.Equal(t, record.ID, got[0].ID)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestVisible_SelfSend(t *testing.T) {
	record := msg("1", "alice", "alice")
	assert.Len(t, Visible([]domain.Message{record}, "alice"), 1)
	assert.Empty(t, Visible([]domain.Message{record}, "bob"))
}

func TestVisible_PreservesInputOrderAndInput(t *testing.T) {
	records := []domain.Message{
		msg("1", "alice", "bob"),
		msg("2", "carol", "dave"),
		msg("3", "bob", "alice"),
	}

	got := Visible(records, "alice")
	assert.Equal(t, []string{got[0].ID, got[1].ID}, []string{"1", "3"})
	// input untouched
	assert.Len(t, records, 3)
}

func TestVisible_RunsBeforeAnyProjection(t *testing.T) {
	// A starred record between two strangers must not surface in any
	// folder, including starred.
	records := []domain.Message{msg("1", "carol", "dave", starred())}

	visible := Visible(records, "alice")
	for _, folder := range []Folder{FolderInbox, FolderSent, FolderStarred, FolderAll} {
		assert.Empty(t, Project(visible, "alice", folder, ""), "folder %s leaked a record", folder)
	}
}

func TestFolderPartitioning(t *testing.T) {
	records := []domain.Message{
		msg("in", "bob", "alice"),
		msg("out", "alice", "bob"),
		msg("star", "bob", "alice", starred()),
		msg("self", "alice", "alice"),
	}
	visible := Visible(records, "alice")

	inbox := Project(visible, "alice", FolderInbox, "")
	sent := Project(visible, "alice", FolderSent, "")
	starredView := Project(visible, "alice", FolderStarred, "")
	all := Project(visible, "alice", FolderAll, "")

	// inbox ∩ sent only contains self-sends
	for _, in := range inbox {
		for _, out := range sent {
			if in.ID == out.ID {
				assert.Equal(t, in.Sender, in.Recipient, "non-self record in both inbox and sent")
			}
		}
	}

	// starred ⊆ all
	ids := make(map[string]bool)
	for _, m := range all {
		ids[m.ID] = true
	}
	for _, m := range starredView {
		assert.True(t, ids[m.ID], "starred record %s missing from all", m.ID)
	}
}
