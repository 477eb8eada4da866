package rssfeeds

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"brainrot/types"

	readability "github.com/go-shiori/go-readability"
)

const (
	WorkerCount      = 5
	extractorTimeout = 30 * time.Second
)

// ExtractFunc fills in the full text of an article.
type ExtractFunc func(ctx context.Context, article *types.Article) error

// ExtractAllContent runs extract over articles with a small worker pool.
// Failures are logged and leave the article with its feed summary.
func ExtractAllContent(ctx context.Context, articles []*types.Article, extract ExtractFunc) {
	var wg sync.WaitGroup
	articleChan := make(chan *types.Article, len(articles))

	for i := 0; i < WorkerCount; i++ {
		go func(workerID int) {
			for article := range articleChan {
				if err := extract(ctx, article); err != nil {
					log.Printf("[Worker %d] Failed to extract %s: %v", workerID, article.URL, err)
				}
				wg.Done()
			}
		}(i)
	}

	for _, article := range articles {
		wg.Add(1)
		articleChan <- article
	}

	wg.Wait()
	close(articleChan)
}

// ExtractContent downloads the article page and keeps its readable text.
func ExtractContent(ctx context.Context, article *types.Article) error {
	if article.URL == "" {
		return fmt.Errorf("article URL is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := extractorTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	extracted, err := readability.FromURL(article.URL, timeout)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}

	article.ContentText = extracted.TextContent
	if article.Title == "" {
		article.Title = extracted.Title
	}
	return nil
}
