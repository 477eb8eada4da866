// Package background chooses the clip that plays behind the narration.
package background

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"brainrot/types"
)

// Selector picks uniformly at random from a pool of clip references.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector returns a Selector drawing from src. A nil src is seeded from
// the clock; tests pass a fixed source for reproducible picks.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Selector{rng: rand.New(src)}
}

// Select returns one element of pool, or types.ErrNoAssets if it is empty.
func (s *Selector) Select(pool []string) (string, error) {
	if len(pool) == 0 {
		return "", types.ErrNoAssets
	}
	s.mu.Lock()
	i := s.rng.Intn(len(pool))
	s.mu.Unlock()
	return pool[i], nil
}

// Pick lists src, selects one reference and resolves it to a local path.
func (s *Selector) Pick(ctx context.Context, src Source) (string, error) {
	pool, err := src.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list backgrounds: %w", err)
	}
	ref, err := s.Select(pool)
	if err != nil {
		return "", err
	}
	path, err := src.Fetch(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("failed to fetch background %s: %w", ref, err)
	}
	return path, nil
}
