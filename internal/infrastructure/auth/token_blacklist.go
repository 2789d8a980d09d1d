package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/storehub/backend/internal/infrastructure/config"
)

// TokenBlacklist invalidates JWTs before they expire, on logout or when a
// user is deleted.
type TokenBlacklist interface {
	// Revoke blacklists a token's JTI for ttl, the token's remaining lifetime
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks if a token's JTI is blacklisted
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser rejects every token of the user issued up to now
	RevokeUser(ctx context.Context, userID uint, ttl time.Duration) error

	// IsUserRevoked reports whether a token issued at issuedAt predates the
	// user's revocation
	IsUserRevoked(ctx context.Context, userID uint, issuedAt time.Time) (bool, error)
}

const blacklistPrefix = "storehub:token:revoked:"

// RedisTokenBlacklist implements TokenBlacklist using Redis
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisTokenBlacklist creates a token blacklist with an existing Redis client
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func jtiKey(jti string) string {
	return blacklistPrefix + "jti:" + jti
}

func userKey(userID uint) string {
	return blacklistPrefix + "user:" + strconv.FormatUint(uint64(userID), 10)
}

// Revoke adds a token's JTI to the blacklist
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsRevoked checks if a token's JTI is in the blacklist
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}

// RevokeUser stores the current Unix time as the user's invalidation time
func (b *RedisTokenBlacklist) RevokeUser(ctx context.Context, userID uint, ttl time.Duration) error {
	if err := b.client.Set(ctx, userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked checks the token issue time against the user's invalidation time
func (b *RedisTokenBlacklist) IsUserRevoked(ctx context.Context, userID uint, issuedAt time.Time) (bool, error) {
	invalidatedAt, err := b.client.Get(ctx, userKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user token invalidation: %w", err)
	}
	return issuedAt.Unix() <= invalidatedAt, nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// MemoryTokenBlacklist keeps revocations in process memory. It is used when
// Redis is disabled and only holds for a single instance.
type MemoryTokenBlacklist struct {
	cache *gocache.Cache
}

// NewMemoryTokenBlacklist creates an in-memory token blacklist
func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{cache: gocache.New(gocache.NoExpiration, time.Minute)}
}

// Revoke adds a token's JTI to the blacklist
func (b *MemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.cache.Set(jtiKey(jti), struct{}{}, ttl)
	return nil
}

// IsRevoked checks if a token's JTI is blacklisted and not expired
func (b *MemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, found := b.cache.Get(jtiKey(jti))
	return found, nil
}

// RevokeUser records the current time as the user's invalidation time
func (b *MemoryTokenBlacklist) RevokeUser(_ context.Context, userID uint, ttl time.Duration) error {
	b.cache.Set(userKey(userID), time.Now(), ttl)
	return nil
}

// IsUserRevoked checks the token issue time against the user's invalidation time
func (b *MemoryTokenBlacklist) IsUserRevoked(_ context.Context, userID uint, issuedAt time.Time) (bool, error) {
	v, found := b.cache.Get(userKey(userID))
	if !found {
		return false, nil
	}
	return !issuedAt.After(v.(time.Time)), nil
}

var _ TokenBlacklist = (*MemoryTokenBlacklist)(nil)
