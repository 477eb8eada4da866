// Package render encodes a composed timeline with ffmpeg.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"brainrot/config"
	"brainrot/subtitles"
	"brainrot/types"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpegRenderer burns subtitle overlays onto the fitted background, muxes
// the narration and writes an H.264/AAC file.
type FFmpegRenderer struct {
	// Binary is the ffmpeg executable, "ffmpeg" when empty.
	Binary string
	// TempDir holds per-render scratch directories, os.TempDir() when empty.
	TempDir string
}

func NewFFmpegRenderer() *FFmpegRenderer {
	return &FFmpegRenderer{Binary: "ffmpeg"}
}

// Render encodes tl to out. The file is written to a sibling partial path and
// only renamed into place once ffmpeg succeeds, so a failed or canceled render
// leaves nothing at out.
func (r *FFmpegRenderer) Render(ctx context.Context, tl *types.Timeline, out string) error {
	if tl == nil {
		return errors.New("nil timeline")
	}
	if tl.Duration <= 0 {
		return fmt.Errorf("%w: timeline duration %v", types.ErrInvalidDuration, tl.Duration)
	}
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	work, err := os.MkdirTemp(r.TempDir, "brainrot-render-*")
	if err != nil {
		return fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(work)

	assPath := ""
	if len(tl.Overlays) > 0 {
		assPath = filepath.Join(work, "captions.ass")
		if err := writeCaptions(tl, assPath); err != nil {
			return fmt.Errorf("failed to write captions: %w", err)
		}
	}

	partial := PartialPath(out)
	args := Args(tl, assPath, partial)

	bin := r.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.Printf("Encoding %s (%.2fs, %d captions)", filepath.Base(out), tl.Duration, len(tl.Overlays))
	if err := cmd.Run(); err != nil {
		os.Remove(partial)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg canceled: %w", ctxErr)
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLines(stderr.String(), 5))
	}

	if err := os.Rename(partial, out); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// Args assembles the ffmpeg command line for tl. assPath may be empty when
// the timeline has no overlays.
func Args(tl *types.Timeline, assPath, out string) []string {
	frame := tl.Base.Frame
	duration := seconds(tl.Duration)

	inputArgs := ffmpeg.KwArgs{"t": duration}
	if frame.Loop {
		inputArgs["stream_loop"] = "-1"
	}
	video := ffmpeg.Input(frame.Asset.Path, inputArgs).
		Filter("scale", ffmpeg.Args{strconv.Itoa(frame.Scaled.Width), strconv.Itoa(frame.Scaled.Height)}).
		Filter("crop", ffmpeg.Args{
			strconv.Itoa(frame.Canvas.Width), strconv.Itoa(frame.Canvas.Height),
			strconv.Itoa(frame.CropX), strconv.Itoa(frame.CropY),
		}).
		Filter("setsar", ffmpeg.Args{"1"})
	if assPath != "" {
		video = video.Filter("ass", ffmpeg.Args{filepath.ToSlash(assPath)})
	}
	audio := ffmpeg.Input(tl.Audio.Narration.Path).Audio()

	outArgs := ffmpeg.KwArgs{
		"c:v":     config.VideoCodec,
		"c:a":     config.AudioCodec,
		"b:a":     config.AudioBitrate,
		"preset":  config.VideoPreset,
		"r":       strconv.Itoa(tl.FPS),
		"pix_fmt": config.PixelFormat,
		"t":       duration,
	}
	if ext := filepath.Ext(out); ext == "" || ext == partialSuffix {
		outArgs["f"] = "mp4"
	}

	return ffmpeg.Output([]*ffmpeg.Stream{video, audio}, out, outArgs).
		OverWriteOutput().
		GetArgs()
}

// PartialPath is the temporary sibling an encode writes to before it is
// renamed to out. The extension is kept so ffmpeg picks the same muxer.
func PartialPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + partialSuffix + ext
}

const partialSuffix = ".partial"

func writeCaptions(tl *types.Timeline, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	segments := make([]types.SubtitleSegment, 0, len(tl.Overlays))
	for _, o := range tl.Overlays {
		segments = append(segments, o.Segment)
	}
	if err := subtitles.WriteASS(f, segments, tl.Overlays[0].Style, tl.Canvas); err != nil {
		return err
	}
	return f.Close()
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
