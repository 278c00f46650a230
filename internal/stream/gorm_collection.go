package stream

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/wiremail/wiremail-backend/internal/domain"
	"github.com/wiremail/wiremail-backend/internal/repository"
	pkglogger "github.com/wiremail/wiremail-backend/pkg/logger"
)

const redisChangeChannel = "mailbox:changed"

// changeNotice is published to Redis after every local mutation so
// other instances re-pull the collection and re-notify their own
// listeners. Instance is used to skip the echo of our own publish.
type changeNotice struct {
	Instance string `json:"instance"`
}

// GormCollection is the database-backed shared collection. Every
// mutation reloads the full ordered snapshot and fans it out to
// subscribers; with Redis configured, mutations on other instances
// arrive through pub/sub and trigger the same reload.
type GormCollection struct {
	repo        repository.MessageRepository
	redisClient *redis.Client
	instanceID  string

	mu        sync.Mutex
	listeners map[int]SnapshotFunc
	nextID    int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewGormCollection creates the collection. redisClient may be nil
// for single-instance deployments.
func NewGormCollection(repo repository.MessageRepository, redisClient *redis.Client) *GormCollection {
	ctx, cancel := context.WithCancel(context.Background())
	c := &GormCollection{
		repo:        repo,
		redisClient: redisClient,
		instanceID:  uuid.New().String(),
		listeners:   make(map[int]SnapshotFunc),
		ctx:         ctx,
		cancel:      cancel,
	}
	if redisClient != nil {
		go c.subscribeRedis()
	}
	return c
}

// Create appends a record, assigns its identifier and notifies
func (c *GormCollection) Create(ctx context.Context, msg *domain.Message) (string, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if err := c.repo.Create(msg); err != nil {
		return "", err
	}
	c.notify()
	c.publishChange()
	return msg.ID, nil
}

// Update applies a partial field update and notifies
func (c *GormCollection) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := c.repo.UpdateFields(id, fields); err != nil {
		return err
	}
	c.notify()
	c.publishChange()
	return nil
}

// Subscribe registers a snapshot listener and primes it immediately
func (c *GormCollection) Subscribe(fn SnapshotFunc) (func(), error) {
	records, err := c.repo.FindAll()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	fn(records)

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}, nil
}

// Close stops the Redis subscriber
func (c *GormCollection) Close() {
	c.cancel()
}

func (c *GormCollection) notify() {
	records, err := c.repo.FindAll()
	if err != nil {
		pkglogger.GetLogger().Error().Err(err).Msg("collection snapshot reload failed")
		return
	}

	c.mu.Lock()
	fns := make([]SnapshotFunc, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(records)
	}
}

func (c *GormCollection) publishChange() {
	if c.redisClient == nil {
		return
	}
	data, err := json.Marshal(&changeNotice{Instance: c.instanceID})
	if err != nil {
		return
	}
	c.redisClient.Publish(c.ctx, redisChangeChannel, data) //nolint:errcheck
}

// subscribeRedis listens for mutations made by other instances
func (c *GormCollection) subscribeRedis() {
	pubsub := c.redisClient.Subscribe(c.ctx, redisChangeChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var notice changeNotice
			if err := json.Unmarshal([]byte(msg.Payload), &notice); err != nil {
				continue
			}
			if notice.Instance == c.instanceID {
				continue // our own mutation, already notified locally
			}
			c.notify()
		case <-c.ctx.Done():
			return
		}
	}
}
