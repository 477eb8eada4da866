package deduplication

import (
	"context"
	"errors"
	"testing"

	"brainrot/types"
)

func TestNormalizeTitleAndURLAndHash(t *testing.T) {
	cases := []struct {
		name          string
		url           string
		title         string
		wantNormURL   string
		wantNormTitle string
	}{
		{"simple", "https://example.com/path", "Hello World", "https://example.com/path", "hello world"},
		{"utm and fragment", "https://example.com/path?utm_source=feed#section", "  Hello   World  ", "https://example.com/path", "hello world"},
		{"uppercase host", "HTTP://Example.COM/", "TiTle", "http://example.com", "title"},
		{"tracking params", "https://example.com/?fbclid=XYZ&gclid=ABC&utm_medium=1", "T", "https://example.com", "t"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if nu := normalizeURL(c.url); nu != c.wantNormURL {
				t.Fatalf("normalizeURL(%q) = %q; want %q", c.url, nu, c.wantNormURL)
			}
			if nt := normalizeTitle(c.title); nt != c.wantNormTitle {
				t.Fatalf("normalizeTitle(%q) = %q; want %q", c.title, nt, c.wantNormTitle)
			}
			h, err := NormalizeAndHash(&types.Article{URL: c.url, Title: c.title})
			if err != nil || len(h) != 64 {
				t.Fatalf("NormalizeAndHash = %q, %v", h, err)
			}
		})
	}

	a, _ := NormalizeAndHash(&types.Article{URL: "https://example.com/x?utm_source=a", Title: "Story"})
	b, _ := NormalizeAndHash(&types.Article{URL: "https://EXAMPLE.com/x#top", Title: " story "})
	if a != b {
		t.Fatalf("equivalent articles hashed differently")
	}
	if _, err := NormalizeAndHash(nil); err == nil {
		t.Fatal("expected error for nil article")
	}
	if _, err := NormalizeAndHash(&types.Article{}); err == nil {
		t.Fatal("expected error for empty article")
	}
}

type failingLedger struct{}

func (failingLedger) Seen(context.Context, string) (bool, error) { return false, errors.New("down") }
func (failingLedger) Add(context.Context, string) error          { return errors.New("down") }

func TestDeduplicator(t *testing.T) {
	ctx := context.Background()
	d := NewDeduplicator(NewMemoryLedger())
	article := &types.Article{URL: "https://example.com/story", Title: "Story"}

	if d.IsDuplicate(ctx, article) {
		t.Fatal("fresh article reported as duplicate")
	}
	if err := d.Record(ctx, article); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !d.IsDuplicate(ctx, &types.Article{URL: "https://example.com/story/", Title: "STORY"}) {
		t.Fatal("recorded article not detected")
	}

	broken := NewDeduplicator(failingLedger{})
	if broken.IsDuplicate(ctx, article) {
		t.Fatal("ledger failure should read as not seen")
	}
	if err := broken.Record(ctx, article); err == nil {
		t.Fatal("expected Record error from failing ledger")
	}
}
