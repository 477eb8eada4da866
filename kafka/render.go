package kafka

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"brainrot/jobs"
	"brainrot/pipeline"
	"brainrot/types"

	"github.com/google/uuid"
)

// RenderFunc runs one render request to completion.
type RenderFunc func(ctx context.Context, req types.RenderRequest) (*pipeline.Result, error)

// ResultSender receives finished job snapshots.
type ResultSender interface {
	Send(job types.Job) error
}

// RenderHandlerConfig wires NewRenderHandler. Tracker and Results are optional.
type RenderHandlerConfig struct {
	Render  RenderFunc
	Tracker *jobs.Tracker
	Results ResultSender
}

// NewRenderHandler returns a handler for render request messages. Requests
// with no text are marked and skipped. A render failing with a terminal error
// is marked and its failed job is published; other failures are left
// unmarked so they are redelivered.
func NewRenderHandler(cfg RenderHandlerConfig) *TypedMessageHandler[types.RenderRequest] {
	return &TypedMessageHandler[types.RenderRequest]{
		Validate: func(msg *types.RenderRequest) bool {
			if strings.TrimSpace(msg.Text) == "" {
				log.Printf("Skipping render request %q with empty text", msg.ID)
				return false
			}
			return true
		},
		Process: func(ctx context.Context, msg *types.RenderRequest) error {
			if msg.ID == "" {
				msg.ID = uuid.NewString()
			}
			log.Printf("Processing render request: ID=%s", msg.ID)
			if cfg.Tracker != nil {
				_, err := cfg.Tracker.Queue(ctx, msg.ID)
				switch {
				case errors.Is(err, jobs.ErrJobExists):
					log.Printf("Render request %s redelivered", msg.ID)
				case err != nil:
					log.Printf("Warning: failed to track job %s: %v", msg.ID, err)
				}
			}

			res, err := cfg.Render(ctx, *msg)
			if err != nil {
				log.Printf("Failed to render %s: %v", msg.ID, err)
				cfg.finish(ctx, types.Job{ID: msg.ID, Status: types.JobFailed, Error: err.Error()}, types.IsTerminal(err))
				return err
			}

			log.Printf("Successfully rendered %s: %s", msg.ID, res.Output)
			cfg.finish(ctx, types.Job{ID: msg.ID, Status: types.JobDone, Output: res.Output, VideoID: res.VideoID}, true)
			return nil
		},
		Terminal:   types.IsTerminal,
		AlwaysMark: true,
	}
}

// finish records the job outcome and, when final, publishes it. The writes
// use a detached context so a consumer shutting down still records them.
func (cfg RenderHandlerConfig) finish(ctx context.Context, job types.Job, final bool) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalWriteTimeout)
	defer cancel()

	if cfg.Tracker != nil {
		var err error
		if job.Status == types.JobFailed {
			err = cfg.Tracker.Fail(ctx, job.ID, errors.New(job.Error))
		} else {
			err = cfg.Tracker.Done(ctx, job.ID, job.Output, job.VideoID)
		}
		if err != nil {
			log.Printf("Warning: failed to track job %s: %v", job.ID, err)
		}
	}
	if final && cfg.Results != nil {
		if err := cfg.Results.Send(job); err != nil {
			log.Printf("Warning: %v", err)
		}
	}
}

const finalWriteTimeout = 5 * time.Second
