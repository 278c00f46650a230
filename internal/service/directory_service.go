package service

import (
	"github.com/wiremail/wiremail-backend/internal/directory"
)

// DirectoryService exposes the reachable-recipient directory to the
// HTTP layer
type DirectoryService interface {
	Reachable() []string
	Suggest(query, typed string) []directory.Suggestion
}

type directoryService struct {
	tracker *directory.Tracker
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(tracker *directory.Tracker) DirectoryService {
	return &directoryService{tracker: tracker}
}

func (s *directoryService) Reachable() []string {
	return s.tracker.Reachable()
}

func (s *directoryService) Suggest(query, typed string) []directory.Suggestion {
	return s.tracker.Suggest(query, typed)
}
