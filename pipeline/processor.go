// Package pipeline runs a script through every stage needed to produce a
// finished short video.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"brainrot/background"
	"brainrot/compose"
	"brainrot/config"
	"brainrot/frame"
	"brainrot/publish"
	"brainrot/sanitize"
	"brainrot/subtitles"
	"brainrot/tts"
	"brainrot/types"

	"github.com/google/uuid"
)

// Stage names reported to the Observer, in execution order.
const (
	StageSanitize   = "sanitize"
	StageSynthesize = "synthesize"
	StagePace       = "pace"
	StageBackground = "background"
	StageTransform  = "transform"
	StageCompose    = "compose"
	StageSubtitles  = "subtitles"
	StageUpload     = "upload"
	StagePublish    = "publish"
)

// Prober reads media metadata.
type Prober interface {
	Video(ctx context.Context, path string) (types.VideoAsset, error)
	AudioDuration(ctx context.Context, path string) (float64, error)
}

// ObjectUploader stores a finished file remotely.
type ObjectUploader interface {
	PutFile(ctx context.Context, bucket, key, path, contentType string) error
}

// Presigner issues temporary download links for uploaded objects.
type Presigner interface {
	PresignGet(ctx context.Context, bucket, key string, lifetime time.Duration) (string, error)
}

// Publisher posts a finished video and returns its public id.
type Publisher interface {
	Upload(ctx context.Context, path string, meta publish.Metadata) (string, error)
}

// Observer is told when a render enters a stage.
type Observer func(ctx context.Context, id, stage string)

// Options wires a Processor. Sanitizer, Synthesizer, Prober, Backgrounds and
// Composer are required.
type Options struct {
	Sanitizer   *sanitize.Sanitizer
	Synthesizer tts.Synthesizer
	Prober      Prober
	Backgrounds background.Source
	Selector    *background.Selector
	Composer    *compose.Composer

	VoiceID   string
	OutputDir string
	Policy    frame.DurationPolicy
	WriteSRT  bool

	Uploader     ObjectUploader
	UploadBucket string
	UploadPrefix string
	Publisher    Publisher

	Observer Observer
}

// Result describes a finished render.
type Result struct {
	ID        string
	Output    string
	Narration string
	Subtitles string
	UploadKey string
	UploadURL string
	VideoID   string
	Timeline  *types.Timeline
}

// Processor renders requests. It holds no per-render state, so one Processor
// may serve concurrent renders.
type Processor struct {
	opts Options
}

func NewProcessor(opts Options) (*Processor, error) {
	switch {
	case opts.Sanitizer == nil:
		return nil, errors.New("pipeline: sanitizer is required")
	case opts.Synthesizer == nil:
		return nil, errors.New("pipeline: synthesizer is required")
	case opts.Prober == nil:
		return nil, errors.New("pipeline: prober is required")
	case opts.Backgrounds == nil:
		return nil, errors.New("pipeline: background source is required")
	case opts.Composer == nil:
		return nil, errors.New("pipeline: composer is required")
	}
	if opts.Selector == nil {
		opts.Selector = background.NewSelector(nil)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = config.OutputDir
	}
	return &Processor{opts: opts}, nil
}

// Render produces the video for req and returns its path.
func (p *Processor) Render(ctx context.Context, req types.RenderRequest) (string, error) {
	res, err := p.Run(ctx, req)
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// Run executes every stage for req. The narration mp3 is kept next to the
// video; all other intermediate files are removed. If the video is never
// produced the narration is removed too.
func (p *Processor) Run(ctx context.Context, req types.RenderRequest) (*Result, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	res := &Result{ID: req.ID, Output: p.outputPath(req)}
	res.Narration = NarrationPath(res.Output)

	p.stage(ctx, req.ID, StageSanitize)
	script := p.opts.Sanitizer.Sanitize(req.Text)
	if len(script.Words()) == 0 {
		return nil, types.ErrEmptyInput
	}

	p.stage(ctx, req.ID, StageSynthesize)
	voice := req.VoiceID
	if voice == "" {
		voice = p.opts.VoiceID
	}
	synthCtx, cancel := context.WithTimeout(ctx, config.SynthesisTimeout)
	err := p.opts.Synthesizer.Synthesize(synthCtx, script.String(), voice, res.Narration)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize narration: %w", err)
	}
	composed := false
	defer func() {
		if !composed {
			os.Remove(res.Narration)
		}
	}()
	audioDuration, err := p.opts.Prober.AudioDuration(ctx, res.Narration)
	if err != nil {
		return nil, fmt.Errorf("failed to read narration: %w", err)
	}
	narration := types.Narration{Path: res.Narration, Duration: audioDuration}

	p.stage(ctx, req.ID, StagePace)
	segments, err := subtitles.Pace(script.String(), audioDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to pace subtitles: %w", err)
	}

	p.stage(ctx, req.ID, StageBackground)
	clipPath, err := p.opts.Selector.Pick(ctx, p.opts.Backgrounds)
	if err != nil {
		return nil, err
	}
	log.Printf("[%s] Using background: %s", req.ID, filepath.Base(clipPath))

	p.stage(ctx, req.ID, StageTransform)
	asset, err := p.opts.Prober.Video(ctx, clipPath)
	if err != nil {
		return nil, err
	}
	fitted, err := frame.Transform(asset, audioDuration, p.opts.Policy)
	if err != nil {
		return nil, err
	}

	p.stage(ctx, req.ID, StageCompose)
	renderCtx, cancel := context.WithTimeout(ctx, config.RenderTimeout)
	res.Timeline, err = p.opts.Composer.Compose(renderCtx, fitted, narration, segments, res.Output)
	cancel()
	if err != nil {
		return nil, err
	}
	composed = true
	log.Printf("[%s] Video created: %s", req.ID, res.Output)

	if p.opts.WriteSRT {
		p.stage(ctx, req.ID, StageSubtitles)
		res.Subtitles = strings.TrimSuffix(res.Output, filepath.Ext(res.Output)) + ".srt"
		if err := writeSRT(res.Subtitles, segments); err != nil {
			return nil, fmt.Errorf("failed to write subtitles: %w", err)
		}
	}

	if p.opts.Uploader != nil && p.opts.UploadBucket != "" {
		p.stage(ctx, req.ID, StageUpload)
		key := path.Join(p.opts.UploadPrefix, filepath.Base(res.Output))
		if err := p.opts.Uploader.PutFile(ctx, p.opts.UploadBucket, key, res.Output, "video/mp4"); err != nil {
			return nil, fmt.Errorf("upload failed: %w", err)
		}
		res.UploadKey = key
		if ps, ok := p.opts.Uploader.(Presigner); ok {
			if u, err := ps.PresignGet(ctx, p.opts.UploadBucket, key, config.PresignLifetime); err == nil {
				res.UploadURL = u
				log.Printf("[%s] Uploaded: %s", req.ID, u)
			}
		}
	}

	if req.Publish {
		if p.opts.Publisher == nil {
			log.Printf("[%s] Skipping publish (no credentials)", req.ID)
		} else {
			p.stage(ctx, req.ID, StagePublish)
			res.VideoID, err = p.opts.Publisher.Upload(ctx, res.Output, publish.MetadataFor(script, ""))
			if err != nil {
				return nil, fmt.Errorf("publish failed: %w", err)
			}
		}
	}

	return res, nil
}

func (p *Processor) stage(ctx context.Context, id, stage string) {
	if p.opts.Observer != nil {
		p.opts.Observer(ctx, id, stage)
	}
}

func (p *Processor) outputPath(req types.RenderRequest) string {
	if req.Output != "" {
		return compose.OutputPath(req.Output)
	}
	return filepath.Join(p.opts.OutputDir, req.ID+config.DefaultOutputExt)
}

// NarrationPath is where the narration for a video at output is written.
func NarrationPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + config.NarrationExt
}

func writeSRT(path string, segments []types.SubtitleSegment) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := subtitles.WriteSRT(f, segments); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
