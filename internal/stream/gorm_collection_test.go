package stream

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiremail/wiremail-backend/internal/common"
	"github.com/wiremail/wiremail-backend/internal/domain"
)

// memoryRepo is an in-memory stand-in for the database repository,
// keeping records in created-then-seq order like the real query does
type memoryRepo struct {
	mu       sync.Mutex
	records  []domain.Message
	failNext error
}

func (r *memoryRepo) Create(msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	msg.Seq = int64(len(r.records) + 1)
	r.records = append(r.records, *msg)
	return nil
}

func (r *memoryRepo) UpdateFields(id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID != id {
			continue
		}
		if v, ok := fields["is_read"]; ok {
			r.records[i].Read = v.(bool)
		}
		if v, ok := fields["starred"]; ok {
			r.records[i].Starred = v.(bool)
		}
		return nil
	}
	return common.ErrNotFound
}

func (r *memoryRepo) FindByID(id string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			m := r.records[i]
			return &m, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memoryRepo) FindAll() ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Message, len(r.records))
	copy(out, r.records)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func TestCollection_SubscribePrimesImmediately(t *testing.T) {
	repo := &memoryRepo{records: []domain.Message{{ID: "seed", Sender: "a", Recipient: "b"}}}
	coll := NewGormCollection(repo, nil)
	defer coll.Close()

	var got []domain.Message
	unsubscribe, err := coll.Subscribe(func(records []domain.Message) {
		got = records
	})
	require.NoError(t, err)
	defer unsubscribe()

	require.Len(t, got, 1)
	assert.Equal(t, "seed", got[0].ID)
}

func TestCollection_CreateAssignsIDAndNotifies(t *testing.T) {
	repo := &memoryRepo{}
	coll := NewGormCollection(repo, nil)
	defer coll.Close()

	var snapshots [][]domain.Message
	unsubscribe, err := coll.Subscribe(func(records []domain.Message) {
		snapshots = append(snapshots, records)
	})
	require.NoError(t, err)
	defer unsubscribe()

	id, err := coll.Create(context.Background(), &domain.Message{Sender: "alice", Recipient: "bob"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, snapshots, 2, "prime plus one change")
	require.Len(t, snapshots[1], 1)
	assert.Equal(t, id, snapshots[1][0].ID)
}

func TestCollection_UpdateNotifiesWithFreshSnapshot(t *testing.T) {
	repo := &memoryRepo{records: []domain.Message{{ID: "m1", Sender: "a", Recipient: "b"}}}
	coll := NewGormCollection(repo, nil)
	defer coll.Close()

	var latest []domain.Message
	unsubscribe, err := coll.Subscribe(func(records []domain.Message) {
		latest = records
	})
	require.NoError(t, err)
	defer unsubscribe()

	require.NoError(t, coll.Update(context.Background(), "m1", map[string]interface{}{"is_read": true}))
	require.Len(t, latest, 1)
	assert.True(t, latest[0].Read)
}

func TestCollection_FailedCreateDoesNotNotify(t *testing.T) {
	repo := &memoryRepo{failNext: errors.New("deadlock")}
	coll := NewGormCollection(repo, nil)
	defer coll.Close()

	calls := 0
	unsubscribe, err := coll.Subscribe(func(records []domain.Message) { calls++ })
	require.NoError(t, err)
	defer unsubscribe()

	_, err = coll.Create(context.Background(), &domain.Message{Sender: "a", Recipient: "b"})
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "only the subscription prime")
}

func TestCollection_UnsubscribeStopsNotifications(t *testing.T) {
	repo := &memoryRepo{}
	coll := NewGormCollection(repo, nil)
	defer coll.Close()

	calls := 0
	unsubscribe, err := coll.Subscribe(func(records []domain.Message) { calls++ })
	require.NoError(t, err)

	unsubscribe()

	_, err = coll.Create(context.Background(), &domain.Message{Sender: "a", Recipient: "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
