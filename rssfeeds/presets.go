package rssfeeds

import "strings"

// FeedConfig describes a named feed.
type FeedConfig struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Default configuration values
const (
	DefaultFeedPreset = "tifu"
	DefaultCount      = 10
)

// FeedPresets maps friendly keys to feeds that read well as narration.
var FeedPresets = map[string]FeedConfig{
	"tifu": {
		Name: "r/tifu",
		URL:  "https://www.reddit.com/r/tifu/.rss",
	},
	"aita": {
		Name: "r/AmItheAsshole",
		URL:  "https://www.reddit.com/r/AmItheAsshole/.rss",
	},
	"mrs": {
		Name: "r/MaliciousCompliance",
		URL:  "https://www.reddit.com/r/MaliciousCompliance/.rss",
	},
	"pettyrevenge": {
		Name: "r/pettyrevenge",
		URL:  "https://www.reddit.com/r/pettyrevenge/.rss",
	},
	"hn": {
		Name: "Hacker News",
		URL:  "https://hnrss.org/newest",
	},
}

// ResolveFeedURL returns the URL of a preset name, or the input unchanged
// when it is not a preset.
func ResolveFeedURL(feedInput string) string {
	if cfg, ok := FeedPresets[strings.ToLower(strings.TrimSpace(feedInput))]; ok {
		return cfg.URL
	}
	return feedInput
}
