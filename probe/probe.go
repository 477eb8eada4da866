// Package probe reads media dimensions and durations with ffprobe.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"brainrot/config"
	"brainrot/types"
)

// RunFunc runs ffprobe on a file and returns its JSON output.
type RunFunc func(path string, timeout time.Duration) (string, error)

// Prober inspects media files.
type Prober struct {
	run     RunFunc
	timeout time.Duration
}

// NewProber returns a Prober backed by ffmpeg-go.
func NewProber() *Prober {
	return &Prober{run: ffprobe, timeout: config.ProbeTimeout}
}

// NewProberWith returns a Prober using run instead of ffprobe.
func NewProberWith(run RunFunc) *Prober {
	return &Prober{run: run, timeout: config.ProbeTimeout}
}

func ffprobe(path string, timeout time.Duration) (string, error) {
	return ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{})
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

// Video returns the first video stream of path as a VideoAsset.
func (p *Prober) Video(ctx context.Context, path string) (types.VideoAsset, error) {
	out, err := p.probe(ctx, path)
	if err != nil {
		return types.VideoAsset{}, err
	}
	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		if s.Width <= 0 || s.Height <= 0 {
			return types.VideoAsset{}, &types.AssetDecodeError{Path: path, Err: fmt.Errorf("invalid dimensions %dx%d", s.Width, s.Height)}
		}
		dur, ok := parseSeconds(out.Format.Duration)
		if !ok {
			dur, ok = parseSeconds(s.Duration)
		}
		if !ok {
			return types.VideoAsset{}, &types.AssetDecodeError{Path: path, Err: fmt.Errorf("unknown duration")}
		}
		return types.VideoAsset{Path: path, Width: s.Width, Height: s.Height, Duration: dur}, nil
	}
	return types.VideoAsset{}, &types.AssetDecodeError{Path: path, Err: fmt.Errorf("no video stream")}
}

// AudioDuration returns the duration in seconds of the audio in path.
func (p *Prober) AudioDuration(ctx context.Context, path string) (float64, error) {
	out, err := p.probe(ctx, path)
	if err != nil {
		return 0, err
	}
	if dur, ok := parseSeconds(out.Format.Duration); ok {
		return dur, nil
	}
	for _, s := range out.Streams {
		if s.CodecType != "audio" {
			continue
		}
		if dur, ok := parseSeconds(s.Duration); ok {
			return dur, nil
		}
	}
	return 0, &types.AssetDecodeError{Path: path, Err: fmt.Errorf("no audio duration")}
}

func (p *Prober) probe(ctx context.Context, path string) (*ffprobeOutput, error) {
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout || timeout == 0 {
			timeout = left
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := p.run(path, timeout)
	if err != nil {
		return nil, &types.AssetDecodeError{Path: path, Err: err}
	}
	var out ffprobeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &types.AssetDecodeError{Path: path, Err: fmt.Errorf("parse ffprobe output: %w", err)}
	}
	return &out, nil
}

func parseSeconds(s string) (float64, bool) {
	if s == "" || s == "N/A" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
