package rssfeeds

import (
	"context"
	"fmt"
	"log"
	"strings"

	"brainrot/types"
)

// MaxScriptWords caps narration length when no Condenser is configured,
// roughly a minute of speech.
const MaxScriptWords = 180

// Condenser rewrites long text into a short narration script.
type Condenser interface {
	Condense(ctx context.Context, title, body string) (string, error)
}

// Story is a feed article paired with the script to narrate.
type Story struct {
	Article *types.Article
	Script  string
}

// Source turns feed items into narration scripts.
type Source struct {
	// Extract defaults to ExtractContent.
	Extract ExtractFunc
	// Condenser is optional; without it the article text is truncated.
	Condenser Condenser
	// Fetch defaults to FetchFeed.
	Fetch func(ctx context.Context, feedURL string, maxCount int) ([]*types.Article, error)
}

// LatestScript returns the script for the newest item of feedURL.
func (s *Source) LatestScript(ctx context.Context, feedURL string) (Story, error) {
	stories, err := s.Stories(ctx, feedURL, 1)
	if err != nil {
		return Story{}, err
	}
	if len(stories) == 0 {
		return Story{}, fmt.Errorf("feed %s has no usable items: %w", feedURL, types.ErrEmptyInput)
	}
	return stories[0], nil
}

// Stories returns scripts for up to count of the newest items of feedURL.
// Items whose text comes out empty are skipped.
func (s *Source) Stories(ctx context.Context, feedURL string, count int) ([]Story, error) {
	fetch := s.Fetch
	if fetch == nil {
		fetch = FetchFeed
	}
	extract := s.Extract
	if extract == nil {
		extract = ExtractContent
	}

	articles, err := fetch(ctx, ResolveFeedURL(feedURL), count)
	if err != nil {
		return nil, err
	}
	ExtractAllContent(ctx, articles, extract)

	stories := make([]Story, 0, len(articles))
	for _, a := range articles {
		script, err := s.script(ctx, a)
		if err != nil {
			log.Printf("Skipping %s: %v", a.URL, err)
			continue
		}
		if script == "" {
			continue
		}
		stories = append(stories, Story{Article: a, Script: script})
	}
	return stories, nil
}

func (s *Source) script(ctx context.Context, a *types.Article) (string, error) {
	body := strings.Join(strings.Fields(a.Body()), " ")
	if body == "" {
		return "", nil
	}
	if s.Condenser != nil {
		condensed, err := s.Condenser.Condense(ctx, a.Title, body)
		if err != nil {
			return "", fmt.Errorf("condense failed: %w", err)
		}
		return strings.TrimSpace(condensed), nil
	}

	text := body
	if a.Title != "" && !strings.HasPrefix(body, a.Title) {
		text = a.Title + ". " + body
	}
	words := strings.Fields(text)
	if len(words) > MaxScriptWords {
		words = words[:MaxScriptWords]
	}
	return strings.Join(words, " "), nil
}
