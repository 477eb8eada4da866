package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Article is a feed item used as a script source.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary"`
	ContentText string    `json:"content_text"`
}

// Body returns the best available narration text for the article.
func (a *Article) Body() string {
	if a.ContentText != "" {
		return a.ContentText
	}
	return a.Summary
}

// GenerateID creates a short stable ID from a URL
func GenerateID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}
