// Package scheduler runs feed renders on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFunc is one scheduled pass.
type RunFunc func(ctx context.Context) ([]string, error)

// LastRun summarizes the most recent pass.
type LastRun struct {
	Started  time.Time
	Finished time.Time
	Outputs  []string
	Err      error
}

// Scheduler triggers run on a cron schedule. A tick that fires while the
// previous pass is still running is skipped.
type Scheduler struct {
	ctx  context.Context
	run  RunFunc
	cron *cron.Cron

	mu      sync.Mutex
	busy    bool
	cronID  cron.EntryID
	last    LastRun
	skipped int
}

// New returns a Scheduler whose passes run under ctx.
func New(ctx context.Context, run RunFunc) *Scheduler {
	return &Scheduler{ctx: ctx, run: run, cron: cron.New()}
}

// Start registers schedule (standard five-field cron syntax or descriptors
// such as "@every 1h") and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(schedule, func() {
		log.Println("Cron triggered: starting feed run")
		if !s.Trigger() {
			log.Println("Cron skipped: previous run still in progress")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cronID = id
	s.cron.Start()
	log.Printf("Cron job started with schedule: %s", schedule)
	return nil
}

// Trigger runs one pass synchronously unless one is already running, and
// reports whether it ran.
func (s *Scheduler) Trigger() bool {
	s.mu.Lock()
	if s.busy {
		s.skipped++
		s.mu.Unlock()
		return false
	}
	s.busy = true
	s.mu.Unlock()

	started := time.Now()
	outputs, err := s.run(s.ctx)
	if err != nil {
		log.Printf("Cron run error: %v", err)
	}
	log.Printf("Cron run rendered %d videos in %s", len(outputs), time.Since(started).Round(time.Second))

	s.mu.Lock()
	s.busy = false
	s.last = LastRun{Started: started, Finished: time.Now(), Outputs: outputs, Err: err}
	s.mu.Unlock()
	return true
}

// Last returns the summary of the most recent pass.
func (s *Scheduler) Last() LastRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Skipped returns how many ticks were dropped because a pass was running.
func (s *Scheduler) Skipped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}

// Stop stops the cron loop and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
