package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRSSRoutes registers feed endpoints when a feed is configured.
func (s *Server) RegisterRSSRoutes(r *gin.Engine) {
	if s.feed == nil {
		return
	}
	g := r.Group("/api/rss")
	g.POST("/refresh", s.handleRSSRefresh)
}

// handleRSSRefresh renders new feed stories in the background and returns
// 202 Accepted immediately.
func (s *Server) handleRSSRefresh(c *gin.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		outputs, err := s.feed(s.ctx)
		if err != nil {
			log.Printf("Feed refresh finished with errors: %v", err)
		}
		log.Printf("Feed refresh rendered %d videos", len(outputs))
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh started"})
}
