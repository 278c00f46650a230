package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wiremail/wiremail-backend/internal/domain"
)

func ids(msgs []domain.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func TestProject_FolderPredicates(t *testing.T) {
	visible := []domain.Message{
		msg("in", "bob", "alice"),
		msg("out", "alice", "bob"),
		msg("star-in", "bob", "alice", starred()),
	}

	tests := []struct {
		folder Folder
		want   []string
	}{
		{FolderInbox, []string{"in", "star-in"}},
		{FolderSent, []string{"out"}},
		{FolderStarred, []string{"star-in"}},
		{FolderAll, []string{"in", "out", "star-in"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.folder), func(t *testing.T) {
			got := Project(visible, "alice", tt.folder, "")
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func TestProject_SearchMatchesSubjectContentOrSender(t *testing.T) {
	visible := []domain.Message{
		msg("1", "bob", "alice", subject("Quarterly REPORT"), content("numbers")),
		msg("2", "bob", "alice", subject("hello"), content("the report is late")),
		msg("3", "reporter_jane", "alice", subject("hi"), content("news")),
		msg("4", "bob", "alice", subject("unrelated"), content("nothing")),
	}

	got := Project(visible, "alice", FolderAll, "report")
	assert.ElementsMatch(t, []string{"1", "2", "3"}, ids(got))

	// empty query filters nothing
	assert.Len(t, Project(visible, "alice", FolderAll, ""), 4)
}

func TestProject_SearchAndFolderCommute(t *testing.T) {
	visible := []domain.Message{
		msg("in", "bob", "alice", subject("invoice")),
		msg("out", "alice", "bob", subject("invoice")),
		msg("noise", "bob", "alice", subject("party")),
	}

	direct := Project(visible, "alice", FolderInbox, "invoice")
	folderFirst := Project(Project(visible, "alice", FolderInbox, ""), "alice", FolderAll, "invoice")
	searchFirst := Project(Project(visible, "alice", FolderAll, "invoice"), "alice", FolderInbox, "")

	assert.Equal(t, ids(direct), ids(folderFirst))
	assert.Equal(t, ids(direct), ids(searchFirst))
}

func TestProject_Idempotent(t *testing.T) {
	visible := []domain.Message{
		msg("a", "bob", "alice", at(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))),
		msg("b", "alice", "bob", at(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)), starred()),
		msg("c", "alice", "alice", at(time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC))),
	}

	once := Project(visible, "alice", FolderAll, "")
	twice := Project(once, "alice", FolderAll, "")
	assert.Equal(t, once, twice)
}

func TestProject_OrderNewestFirstSeqBreaksTies(t *testing.T) {
	sameInstant := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	visible := []domain.Message{
		msg("old", "bob", "alice", at(sameInstant.Add(-time.Hour)), seq(1)),
		msg("tie-second", "bob", "alice", at(sameInstant), seq(3)),
		msg("tie-first", "bob", "alice", at(sameInstant), seq(2)),
		msg("new", "bob", "alice", at(sameInstant.Add(time.Hour)), seq(4)),
	}

	got := Project(visible, "alice", FolderAll, "")
	assert.Equal(t, []string{"new", "tie-first", "tie-second", "old"}, ids(got))
}

func TestCount_DerivedCounters(t *testing.T) {
	visible := []domain.Message{
		msg("1", "bob", "alice"),                    // unread inbound
		msg("2", "bob", "alice", read()),            // read inbound
		msg("3", "alice", "bob", starred()),         // outbound starred
		msg("4", "bob", "alice", starred(), read()), // read starred inbound
	}

	c := Count(visible, "alice")
	assert.Equal(t, 1, c.Unread)
	assert.Equal(t, 2, c.Starred)
}

func TestCount_TracksEveryUpdate(t *testing.T) {
	visible := []domain.Message{msg("1", "bob", "alice")}
	assert.Equal(t, 1, Count(visible, "alice").Unread)

	// same record after a read update in the stream
	visible[0].Read = true
	assert.Equal(t, 0, Count(visible, "alice").Unread)
}
