package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"brainrot/jobs"
	"brainrot/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const finalWriteTimeout = 5 * time.Second

// RegisterRenderRoutes registers the render job endpoints.
func (s *Server) RegisterRenderRoutes(r *gin.Engine) {
	g := r.Group("/api/render")
	g.POST("", s.handleRender)
	g.GET("/:id", s.handleStatus)
}

// handleRender queues a render and returns 202 Accepted with the job id.
func (s *Server) handleRender(c *gin.Context) {
	var req types.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if _, err := s.tracker.Queue(c.Request.Context(), req.ID); err != nil {
		if errors.Is(err, jobs.ErrJobExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "job already exists", "job_id": req.ID})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Printf("Received render request: ID=%s", req.ID)

	s.wg.Add(1)
	go s.run(req)

	c.JSON(http.StatusAccepted, gin.H{"job_id": req.ID})
}

func (s *Server) run(req types.RenderRequest) {
	defer s.wg.Done()

	select {
	case s.sem <- struct{}{}:
	case <-s.ctx.Done():
		s.fail(req.ID, s.ctx.Err())
		return
	}
	defer func() { <-s.sem }()

	res, err := s.render(s.ctx, req)
	if err != nil {
		log.Printf("Render failed for %s: %v", req.ID, err)
		s.fail(req.ID, err)
		return
	}

	ctx, cancel := s.finalContext()
	defer cancel()
	if err := s.tracker.Done(ctx, req.ID, res.Output, res.VideoID); err != nil {
		log.Printf("Warning: failed to record result for %s: %v", req.ID, err)
	}
}

func (s *Server) fail(id string, cause error) {
	ctx, cancel := s.finalContext()
	defer cancel()
	if err := s.tracker.Fail(ctx, id, cause); err != nil {
		log.Printf("Warning: failed to record failure for %s: %v", id, err)
	}
}

// finalContext outlives a canceled server context so the last status write
// still reaches the store during shutdown.
func (s *Server) finalContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(s.ctx), finalWriteTimeout)
}

// handleStatus returns the job snapshot.
func (s *Server) handleStatus(c *gin.Context) {
	job, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, jobs.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, job)
}
