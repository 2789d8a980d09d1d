// Package cache keeps authenticated principals (users with roles,
// permissions and memberships) in process memory so that the
// authentication middleware does not reload them on every request.
package cache

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/storehub/backend/internal/domain/identity"
)

const defaultCleanupInterval = time.Minute

// Publisher broadcasts invalidations to other instances
type Publisher interface {
	Publish(ctx context.Context, msg InvalidationMessage) error
}

// Stats reports cache effectiveness
type Stats struct {
	Hits   int64
	Misses int64
	Items  int
}

// PrincipalCache is a TTL cache of users keyed by id. Returned users are
// copies and may be modified by the caller.
type PrincipalCache struct {
	items     *gocache.Cache
	publisher Publisher
	logger    *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64

	// mu orders evictions against Load storing what it fetched. A Load
	// whose generation moved while it ran drops its result.
	mu    sync.Mutex
	epoch uint64
	gens  map[uint]uint64
}

type generation struct {
	epoch, id uint64
}

// Option configures a PrincipalCache
type Option func(*PrincipalCache)

// WithLogger sets the logger of the cache
func WithLogger(logger *zap.Logger) Option {
	return func(c *PrincipalCache) {
		c.logger = logger
	}
}

// WithPublisher broadcasts every invalidation through p
func WithPublisher(p Publisher) Option {
	return func(c *PrincipalCache) {
		c.publisher = p
	}
}

// NewPrincipalCache creates a cache whose entries live for ttl
func NewPrincipalCache(ttl time.Duration, opts ...Option) *PrincipalCache {
	c := &PrincipalCache{
		items:  gocache.New(ttl, defaultCleanupInterval),
		logger: zap.NewNop(),
		gens:   make(map[uint]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func principalKey(id uint) string {
	return "user:" + strconv.FormatUint(uint64(id), 10)
}

// Get returns a copy of the cached user
func (c *PrincipalCache) Get(id uint) (*identity.User, bool) {
	v, ok := c.items.Get(principalKey(id))
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return clonePrincipal(v.(*identity.User)), true
}

// Set stores a copy of user
func (c *PrincipalCache) Set(user *identity.User) {
	if user == nil || user.ID == 0 {
		return
	}
	c.items.SetDefault(principalKey(user.ID), clonePrincipal(user))
}

// Load returns the cached user or loads it with load and caches the result.
// Errors from load are returned unchanged and nothing is cached. A user
// invalidated while load runs is returned but not cached.
func (c *PrincipalCache) Load(ctx context.Context, id uint, load func(context.Context, uint) (*identity.User, error)) (*identity.User, error) {
	if user, ok := c.Get(id); ok {
		return user, nil
	}
	gen := c.generation(id)
	user, err := load(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generationLocked(id) == gen {
		c.Set(user)
	}
	c.mu.Unlock()
	return user, nil
}

func (c *PrincipalCache) generation(id uint) generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generationLocked(id)
}

func (c *PrincipalCache) generationLocked(id uint) generation {
	return generation{epoch: c.epoch, id: c.gens[id]}
}

// Invalidate drops the given users locally and on other instances
func (c *PrincipalCache) Invalidate(ctx context.Context, ids ...uint) {
	if len(ids) == 0 {
		return
	}
	c.Evict(ids...)
	c.publish(ctx, InvalidationMessage{UserIDs: ids})
}

// InvalidateAll drops every cached user locally and on other instances.
// Role and permission changes use it since they affect many users.
func (c *PrincipalCache) InvalidateAll(ctx context.Context) {
	c.flush()
	c.publish(ctx, InvalidationMessage{All: true})
}

// Evict drops users from this instance only
func (c *PrincipalCache) Evict(ids ...uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.gens[id]++
		c.items.Delete(principalKey(id))
	}
}

func (c *PrincipalCache) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	clear(c.gens)
	c.items.Flush()
}

// Apply handles an invalidation received from another instance
func (c *PrincipalCache) Apply(msg InvalidationMessage) {
	if msg.All {
		c.flush()
		return
	}
	c.Evict(msg.UserIDs...)
}

// Stats returns hit and miss counters
func (c *PrincipalCache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Items:  c.items.ItemCount(),
	}
}

func (c *PrincipalCache) publish(ctx context.Context, msg InvalidationMessage) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, msg); err != nil {
		c.logger.Warn("Failed to broadcast principal invalidation",
			zap.Uints("user_ids", msg.UserIDs),
			zap.Bool("all", msg.All),
			zap.Error(err))
	}
}

func clonePrincipal(u *identity.User) *identity.User {
	cp := *u
	cp.StoreIDs = slices.Clone(u.StoreIDs)
	cp.Roles = slices.Clone(u.Roles)
	return &cp
}
