package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// DefaultInvalidationChannel is the pub/sub channel shared by all instances
	DefaultInvalidationChannel = "storehub:principals:invalidate"

	defaultCloseTimeout = 5 * time.Second
)

// InvalidationMessage tells subscribers which principals are stale
type InvalidationMessage struct {
	UserIDs   []uint `json:"user_ids,omitempty"`
	All       bool   `json:"all,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ErrSubscriptionRunning is returned by a second concurrent Subscribe
var ErrSubscriptionRunning = errors.New("subscription already running")

// RedisInvalidator publishes and receives principal invalidations over
// Redis pub/sub. The redis client is owned by the caller.
type RedisInvalidator struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger

	mu       sync.Mutex
	running  bool
	cancelFn context.CancelFunc
	doneCh   chan struct{}
}

// InvalidatorOption configures a RedisInvalidator
type InvalidatorOption func(*RedisInvalidator)

// WithChannel overrides the pub/sub channel
func WithChannel(channel string) InvalidatorOption {
	return func(i *RedisInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger
func WithInvalidatorLogger(logger *zap.Logger) InvalidatorOption {
	return func(i *RedisInvalidator) {
		i.logger = logger
	}
}

// NewRedisInvalidator creates an invalidator on client
func NewRedisInvalidator(client *redis.Client, opts ...InvalidatorOption) *RedisInvalidator {
	i := &RedisInvalidator{
		client:  client,
		channel: DefaultInvalidationChannel,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Publish sends msg to every subscriber, this instance included
func (i *RedisInvalidator) Publish(ctx context.Context, msg InvalidationMessage) error {
	data, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

// Subscribe delivers messages to handle until ctx is cancelled or Close is
// called. It blocks and is meant to run in its own goroutine.
func (i *RedisInvalidator) Subscribe(ctx context.Context, handle func(InvalidationMessage)) error {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return ErrSubscriptionRunning
	}
	subCtx, cancel := context.WithCancel(ctx)
	i.running = true
	i.cancelFn = cancel
	i.doneCh = make(chan struct{})
	done := i.doneCh
	i.mu.Unlock()

	defer func() {
		cancel()
		i.mu.Lock()
		i.running = false
		i.mu.Unlock()
		close(done)
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("subscribe %s: %w", i.channel, err)
	}
	i.logger.Info("Subscribed to principal invalidations", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				i.logger.Warn("Principal invalidation channel closed")
				return nil
			}
			msg, err := decodeMessage(m.Payload)
			if err != nil {
				i.logger.Error("Dropping malformed invalidation", zap.String("payload", m.Payload), zap.Error(err))
				continue
			}
			handle(msg)
		}
	}
}

// Close stops a running subscription
func (i *RedisInvalidator) Close() error {
	i.mu.Lock()
	cancel, done := i.cancelFn, i.doneCh
	i.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
	case <-time.After(defaultCloseTimeout):
		i.logger.Warn("Timeout waiting for invalidation subscription to stop")
	}
	return nil
}

func encodeMessage(msg InvalidationMessage) ([]byte, error) {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode invalidation: %w", err)
	}
	return data, nil
}

func decodeMessage(payload string) (InvalidationMessage, error) {
	var msg InvalidationMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return msg, fmt.Errorf("decode invalidation: %w", err)
	}
	return msg, nil
}

var _ Publisher = (*RedisInvalidator)(nil)
