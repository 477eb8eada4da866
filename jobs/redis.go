package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"brainrot/types"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "brainrot:job:"

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	// TTL bounds how long finished and abandoned jobs are kept.
	TTL time.Duration
}

// RedisStore keeps jobs as JSON values so several API or consumer processes
// can share status.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects and verifies the server with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
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

	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

// Close closes the underlying Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Create uses SETNX so concurrent claims of one id across processes have a
// single winner.
func (r *RedisStore) Create(ctx context.Context, job types.Job) error {
	if job.ID == "" {
		return errors.New("job id is required")
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	ok, err := r.client.SetNX(ctx, keyPrefix+job.ID, data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", job.ID, err)
	}
	if !ok {
		return ErrJobExists
	}
	return nil
}

func (r *RedisStore) Save(ctx context.Context, job types.Job) error {
	if job.ID == "" {
		return errors.New("job id is required")
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	if err := r.client.Set(ctx, keyPrefix+job.ID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (types.Job, error) {
	data, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Job{}, ErrJobNotFound
	}
	if err != nil {
		return types.Job{}, fmt.Errorf("failed to load job %s: %w", id, err)
	}
	var job types.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return types.Job{}, fmt.Errorf("failed to decode job %s: %w", id, err)
	}
	return job, nil
}
