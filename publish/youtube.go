// Package publish uploads finished videos.
package publish

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"brainrot/config"
	"brainrot/types"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Metadata describes an uploaded video.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
}

var defaultTags = []string{"shorts", "storytime", "reddit stories", "brainrot"}

// MetadataFor derives upload metadata from the narrated script. The title is
// the first words of the script, capped at config.MaxTitleLength characters.
func MetadataFor(script types.Script, sourceURL string) Metadata {
	words := script.Words()
	if len(words) > config.MaxTitleWords {
		words = words[:config.MaxTitleWords]
	}
	title := truncate(strings.Join(words, " "), config.MaxTitleLength)

	description := script.String()
	if sourceURL != "" {
		description += "\n\nSource: " + sourceURL
	}
	description += "\n\n#shorts"

	return Metadata{
		Title:       title,
		Description: description,
		Tags:        append([]string(nil), defaultTags...),
		CategoryID:  config.YouTubeCategoryID,
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max-3])) + "..."
}

// YouTube uploads videos with a service account.
type YouTube struct {
	service *youtube.Service
}

// NewYouTube reads a service account JSON file and builds an upload client.
func NewYouTube(ctx context.Context, serviceAccountFile string) (*YouTube, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}

	return &YouTube{service: service}, nil
}

// Upload publishes the file at path and returns the new video id.
func (y *YouTube) Upload(ctx context.Context, path string, meta Metadata) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}
	log.Printf("Uploading: %s (%.2f MB)", path, float64(info.Size())/(1024*1024))

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryId:  meta.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           config.YouTubePrivacyStatus,
			SelfDeclaredMadeForKids: false,
		},
	}

	resp, err := y.service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(file).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	log.Printf("Uploaded: https://youtube.com/shorts/%s", resp.Id)
	return resp.Id, nil
}
