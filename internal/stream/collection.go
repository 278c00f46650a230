package stream

import (
	"context"

	"github.com/wiremail/wiremail-backend/internal/domain"
)

// SnapshotFunc receives the whole ordered collection after every
// mutation. Listeners run on the notifying goroutine and must not
// block; the hub hands the snapshot off to its own loop.
type SnapshotFunc func(records []domain.Message)

// Collection is the live-sync surface of the shared mailbox
// collection: two mutation primitives and a snapshot subscription.
// There is no delete operation.
type Collection interface {
	// Create appends a record and returns its identifier.
	Create(ctx context.Context, msg *domain.Message) (string, error)

	// Update applies a partial field update to one record.
	Update(ctx context.Context, id string, fields map[string]interface{}) error

	// Subscribe registers a listener. It is invoked immediately with
	// the current snapshot and again after every mutation. The
	// returned function removes the listener.
	Subscribe(fn SnapshotFunc) (unsubscribe func(), err error)
}
