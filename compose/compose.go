// Package compose assembles a render timeline from a fitted background,
// a narration track and paced subtitles.
package compose

import (
	"context"
	"fmt"
	"path/filepath"

	"brainrot/config"
	"brainrot/types"
)

// Renderer encodes a timeline to a video file at out.
type Renderer interface {
	Render(ctx context.Context, tl *types.Timeline, out string) error
}

// CaptionStyle is the style applied to every subtitle overlay.
func CaptionStyle() types.CaptionStyle {
	return types.CaptionStyle{
		Font:        config.SubtitleFont,
		Size:        config.SubtitleFontSize,
		Fill:        config.SubtitleFill,
		Stroke:      config.SubtitleStroke,
		StrokeWidth: config.SubtitleStrokeWidth,
		WrapWidth:   config.VideoWidth,
	}
}

// Composer builds timelines and hands them to a Renderer.
type Composer struct {
	renderer Renderer
}

func NewComposer(r Renderer) *Composer {
	return &Composer{renderer: r}
}

// Build lays out the timeline: the frame as the canvas-sized base layer, the
// narration under the whole timeline and one text layer per segment in
// segment order. An empty segment list yields a timeline with no overlays.
func Build(frame types.TransformedFrame, narration types.Narration, segments []types.SubtitleSegment) *types.Timeline {
	style := CaptionStyle()
	overlays := make([]types.TextLayer, 0, len(segments))
	for i, seg := range segments {
		overlays = append(overlays, types.TextLayer{Index: i, Segment: seg, Style: style})
	}

	return &types.Timeline{
		Canvas:   frame.Canvas,
		FPS:      config.FrameRate,
		Duration: frame.Duration,
		Base:     types.VideoLayer{Frame: frame},
		Audio:    types.AudioLayer{Narration: narration},
		Overlays: overlays,
	}
}

// Compose builds the timeline and renders it to outputPath.
func (c *Composer) Compose(ctx context.Context, frame types.TransformedFrame, narration types.Narration, segments []types.SubtitleSegment, outputPath string) (*types.Timeline, error) {
	if outputPath == "" {
		return nil, fmt.Errorf("compose: empty output path")
	}
	tl := Build(frame, narration, segments)
	if err := c.renderer.Render(ctx, tl, outputPath); err != nil {
		return nil, fmt.Errorf("render %s: %w", outputPath, err)
	}
	return tl, nil
}

// OutputPath appends the default container extension when p has none.
func OutputPath(p string) string {
	if filepath.Ext(p) == "" {
		return p + config.DefaultOutputExt
	}
	return p
}
