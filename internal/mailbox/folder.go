package mailbox

// Folder names a projection of the visibility-filtered record set
type Folder string

const (
	FolderInbox   Folder = "inbox"
	FolderSent    Folder = "sent"
	FolderStarred Folder = "starred"
	FolderAll     Folder = "all"
)

// ParseFolder maps a request parameter to a folder, defaulting to all
func ParseFolder(s string) Folder {
	switch Folder(s) {
	case FolderInbox, FolderSent, FolderStarred:
		return Folder(s)
	default:
		return FolderAll
	}
}
