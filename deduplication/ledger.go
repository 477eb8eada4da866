package deduplication

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"brainrot/types"

	"github.com/redis/go-redis/v9"
)

// Ledger records hashes of rendered stories.
type Ledger interface {
	Seen(ctx context.Context, hash string) (bool, error)
	Add(ctx context.Context, hash string) error
}

// MemoryLedger is a process-local Ledger.
type MemoryLedger struct {
	mu     sync.Mutex
	hashes map[string]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{hashes: make(map[string]struct{})}
}

func (m *MemoryLedger) Seen(ctx context.Context, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.hashes[hash]
	return ok, nil
}

func (m *MemoryLedger) Add(ctx context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hashes[hash] = struct{}{}
	return nil
}

// RedisConfig configures the Redis-backed ledger.
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string // redis set holding the hashes
	TTL      time.Duration
}

// RedisLedger keeps hashes in a Redis set shared by every instance.
type RedisLedger struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisLedger connects and verifies the server with a ping.
func NewRedisLedger(ctx context.Context, cfg RedisConfig) (*RedisLedger, error) {
	if cfg.Key == "" {
		cfg.Key = "brainrot:rendered"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return &RedisLedger{client: client, key: cfg.Key, ttl: cfg.TTL}, nil
}

// Close closes the underlying Redis client.
func (r *RedisLedger) Close() error {
	return r.client.Close()
}

func (r *RedisLedger) Seen(ctx context.Context, hash string) (bool, error) {
	return r.client.SIsMember(ctx, r.key, hash).Result()
}

// Add inserts hash and resets the expiry so the set stays alive for ttl after
// the most recent insertion.
func (r *RedisLedger) Add(ctx context.Context, hash string) error {
	if err := r.client.SAdd(ctx, r.key, hash).Err(); err != nil {
		return err
	}
	if r.ttl > 0 {
		return r.client.Expire(ctx, r.key, r.ttl).Err()
	}
	return nil
}

// Deduplicator answers whether an article was already rendered.
type Deduplicator struct {
	ledger Ledger
}

func NewDeduplicator(ledger Ledger) *Deduplicator {
	return &Deduplicator{ledger: ledger}
}

// IsDuplicate reports whether article was recorded before. Ledger failures are
// logged and treated as not seen, so an unreachable store never blocks a run.
func (d *Deduplicator) IsDuplicate(ctx context.Context, article *types.Article) bool {
	hash, err := NormalizeAndHash(article)
	if err != nil {
		return false
	}
	seen, err := d.ledger.Seen(ctx, hash)
	if err != nil {
		log.Printf("Warning: dedup check failed: %v", err)
		return false
	}
	return seen
}

// Record marks article as rendered.
func (d *Deduplicator) Record(ctx context.Context, article *types.Article) error {
	hash, err := NormalizeAndHash(article)
	if err != nil {
		return err
	}
	return d.ledger.Add(ctx, hash)
}
