package api

import (
	"context"
	"errors"
	"sync"

	"brainrot/config"
	"brainrot/jobs"
	"brainrot/pipeline"
	"brainrot/types"

	"github.com/gin-gonic/gin"
)

// RenderFunc runs one render request to completion.
type RenderFunc func(ctx context.Context, req types.RenderRequest) (*pipeline.Result, error)

// FeedFunc runs one pass over the configured feed.
type FeedFunc func(ctx context.Context) ([]string, error)

// Server owns the background renders started by API requests.
type Server struct {
	ctx     context.Context
	render  RenderFunc
	feed    FeedFunc
	store   jobs.Store
	tracker *jobs.Tracker
	sem     chan struct{}
	wg      sync.WaitGroup
}

// Config wires a Server. Feed is optional.
type Config struct {
	Render RenderFunc
	Feed   FeedFunc
	Store  jobs.Store
	// MaxConcurrent defaults to config.MaxConcurrentRenders.
	MaxConcurrent int
}

// NewServer returns a Server whose renders run under ctx; canceling ctx
// cancels in-flight renders.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Render == nil {
		return nil, errors.New("api: render func is required")
	}
	if cfg.Store == nil {
		cfg.Store = jobs.NewMemoryStore()
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = config.MaxConcurrentRenders
	}
	return &Server{
		ctx:     ctx,
		render:  cfg.Render,
		feed:    cfg.Feed,
		store:   cfg.Store,
		tracker: jobs.NewTracker(cfg.Store),
		sem:     make(chan struct{}, cfg.MaxConcurrent),
	}, nil
}

// Wait blocks until every background render has finished.
func (s *Server) Wait() {
	s.wg.Wait()
}

// NewRouter constructs a Gin engine with registered routes.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	s.RegisterRenderRoutes(r)
	s.RegisterRSSRoutes(r)
	RegisterHealthRoutes(r)
	return r
}
