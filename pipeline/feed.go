package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"brainrot/rssfeeds"
	"brainrot/types"
)

// StorySource yields narration scripts from a feed.
type StorySource interface {
	Stories(ctx context.Context, feedURL string, count int) ([]rssfeeds.Story, error)
}

// Deduplicator remembers rendered stories.
type Deduplicator interface {
	IsDuplicate(ctx context.Context, article *types.Article) bool
	Record(ctx context.Context, article *types.Article) error
}

// FeedRun renders feed stories that have not been rendered before.
type FeedRun struct {
	Processor *Processor
	Source    StorySource
	// Dedup is optional; without it every fetched story is rendered.
	Dedup   Deduplicator
	FeedURL string
	Count   int
	// Limit caps renders per run; zero renders every new story.
	Limit   int
	Publish bool
}

// Run fetches the feed once and renders new stories sequentially. It returns
// the outputs produced and the joined render errors.
func (f *FeedRun) Run(ctx context.Context) ([]string, error) {
	stories, err := f.Source.Stories(ctx, f.FeedURL, f.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	log.Printf("Fetched %d stories from %s", len(stories), f.FeedURL)

	var (
		outputs []string
		errs    []error
	)
	for _, story := range stories {
		if f.Limit > 0 && len(outputs) >= f.Limit {
			break
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if f.Dedup != nil && f.Dedup.IsDuplicate(ctx, story.Article) {
			log.Printf("Skipping already rendered: %s", story.Article.Title)
			continue
		}

		req := types.RenderRequest{
			ID:      story.Article.ID,
			Text:    story.Script,
			Publish: f.Publish,
		}
		if req.ID != "" {
			req.ID = types.GenerateID(req.ID)
		}
		out, err := f.Processor.Render(ctx, req)
		if err != nil {
			log.Printf("Failed to render %s: %v", story.Article.URL, err)
			errs = append(errs, fmt.Errorf("%s: %w", story.Article.URL, err))
			continue
		}
		outputs = append(outputs, out)

		if f.Dedup != nil {
			if err := f.Dedup.Record(ctx, story.Article); err != nil {
				log.Printf("Warning: failed to record %s: %v", story.Article.URL, err)
			}
		}
	}
	return outputs, errors.Join(errs...)
}
