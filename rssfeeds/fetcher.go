// Package rssfeeds turns feed items into narration scripts.
package rssfeeds

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"brainrot/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// FetchFeed retrieves and parses an RSS/Atom feed and returns up to maxCount
// articles, newest first.
func FetchFeed(ctx context.Context, feedURL string, maxCount int) ([]*types.Article, error) {
	feed, err := gofeed.NewParser().ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	return articlesFrom(feed, maxCount), nil
}

// ParseFeed parses a feed document already in memory.
func ParseFeed(r io.Reader, maxCount int) ([]*types.Article, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return articlesFrom(feed, maxCount), nil
}

func articlesFrom(feed *gofeed.Feed, maxCount int) []*types.Article {
	articles := make([]*types.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		// Use GUID if available, otherwise generate from URL
		id := item.GUID
		if id == "" && item.Link != "" {
			id = types.GenerateID(item.Link)
		}

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		articles = append(articles, &types.Article{
			ID:          id,
			Title:       strings.TrimSpace(item.Title),
			URL:         item.Link,
			PublishedAt: publishedAt,
			Summary:     plainText(summary),
		})
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if maxCount > 0 && len(articles) > maxCount {
		articles = articles[:maxCount]
	}
	return articles
}

// plainText strips markup from feed descriptions, which are often HTML.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
