package publish

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"brainrot/types"
)

func TestMetadataFor_Title(t *testing.T) {
	cases := []struct {
		name   string
		script types.Script
		want   string
	}{
		{"short", "my cat stole my lunch", "my cat stole my lunch"},
		{"first ten words", "one two three four five six seven eight nine ten eleven twelve", "one two three four five six seven eight nine ten"},
		{"empty", "", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := MetadataFor(c.script, "").Title; got != c.want {
				t.Fatalf("title = %q, want %q", got, c.want)
			}
		})
	}
}

func TestMetadataFor_LongWordsCapped(t *testing.T) {
	long := strings.Repeat("supercalifragilistic ", 10)
	meta := MetadataFor(types.Script(long), "https://example.com/post")

	if n := utf8.RuneCountInString(meta.Title); n > 100 {
		t.Fatalf("title has %d characters", n)
	}
	if !strings.HasSuffix(meta.Title, "...") {
		t.Fatalf("expected ellipsis: %q", meta.Title)
	}
	if !strings.Contains(meta.Description, "Source: https://example.com/post") {
		t.Fatalf("description missing source: %q", meta.Description)
	}
	if meta.CategoryID == "" || len(meta.Tags) == 0 {
		t.Fatalf("incomplete metadata: %+v", meta)
	}
}

func TestNewYouTube_MissingCredentials(t *testing.T) {
	if _, err := NewYouTube(context.Background(), "does-not-exist.json"); err == nil {
		t.Fatal("expected error for missing service account file")
	}
}
