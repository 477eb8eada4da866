package main

import (
	"context"
	"fmt"
	"log"

	"brainrot/background"
	"brainrot/compose"
	"brainrot/config"
	"brainrot/deduplication"
	"brainrot/frame"
	"brainrot/jobs"
	"brainrot/pipeline"
	"brainrot/probe"
	"brainrot/publish"
	"brainrot/render"
	"brainrot/rssfeeds"
	"brainrot/sanitize"
	"brainrot/storage"
	"brainrot/tts"
)

// app holds the collaborators shared by every run mode.
type app struct {
	cfg       config.Config
	store     jobs.Store
	tracker   *jobs.Tracker
	processor *pipeline.Processor
	closers   []func() error
}

func newApp(ctx context.Context, cfg config.Config, publishEnabled bool) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.RedisAddr != "" {
		rs, err := jobs.NewRedisStore(ctx, jobs.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, TTL: config.JobTTL})
		if err != nil {
			return nil, err
		}
		a.store = rs
		a.closers = append(a.closers, rs.Close)
		log.Printf("Job status stored in Redis at %s", cfg.RedisAddr)
	} else {
		a.store = jobs.NewMemoryStore()
	}
	a.tracker = jobs.NewTracker(a.store)

	filter, err := sanitize.NewFilterFromFile(cfg.WordList)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list: %w", err)
	}
	log.Printf("Loaded %d filtered words", filter.Len())

	var s3 *storage.S3
	if cfg.BackgroundBucket != "" || cfg.UploadBucket != "" {
		s3, err = storage.NewS3(ctx, storage.S3Config{
			Region:       cfg.S3Region,
			Profile:      cfg.S3Profile,
			UsePathStyle: cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
	}

	var backgrounds background.Source
	if cfg.BackgroundBucket != "" {
		backgrounds = &background.S3Source{
			Store:    s3,
			Bucket:   cfg.BackgroundBucket,
			Prefix:   cfg.BackgroundPrefix,
			CacheDir: cfg.CacheDir,
		}
		log.Printf("Backgrounds from s3://%s/%s", cfg.BackgroundBucket, cfg.BackgroundPrefix)
	} else {
		backgrounds = background.NewDirSource(cfg.BackgroundFolder)
		log.Printf("Backgrounds from %s", cfg.BackgroundFolder)
	}

	policy := frame.PolicyReject
	if cfg.LoopShortClips {
		policy = frame.PolicyLoop
	}

	opts := pipeline.Options{
		Sanitizer:   sanitize.New(filter),
		Synthesizer: tts.NewElevenLabs(cfg.ElevenLabsAPIKey),
		Prober:      probe.NewProber(),
		Backgrounds: backgrounds,
		Composer:    compose.NewComposer(render.NewFFmpegRenderer()),
		VoiceID:     cfg.VoiceID,
		OutputDir:   config.OutputDir,
		Policy:      policy,
		WriteSRT:    cfg.WriteSRT,
		Observer: func(ctx context.Context, id, stage string) {
			log.Printf("[%s] %s", id, stage)
			if err := a.tracker.Stage(ctx, id, stage); err != nil {
				log.Printf("Warning: failed to track %s: %v", id, err)
			}
		},
	}
	if cfg.UploadBucket != "" {
		opts.Uploader = s3
		opts.UploadBucket = cfg.UploadBucket
		opts.UploadPrefix = cfg.UploadPrefix
	}

	if publishEnabled || cfg.YouTubeCredentials != "" {
		if yt, err := publish.NewYouTube(ctx, cfg.YouTubeCredentials); err != nil {
			log.Printf("YouTube uploader not initialized: %v", err)
			log.Println("Running in VIDEO-ONLY mode (no publish)")
		} else {
			opts.Publisher = yt
			log.Println("YouTube client initialized")
		}
	}

	a.processor, err = pipeline.NewProcessor(opts)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// feedRun builds the scheduled/refresh feed pass.
func (a *app) feedRun(ctx context.Context, feed string, publishEnabled bool) (*pipeline.FeedRun, error) {
	src := &rssfeeds.Source{}
	if a.cfg.CohereAPIKey != "" {
		src.Condenser = rssfeeds.NewCohereCondenser(a.cfg.CohereAPIKey)
		log.Println("Condensing stories with Cohere")
	}

	var ledger deduplication.Ledger
	if a.cfg.RedisAddr != "" {
		rl, err := deduplication.NewRedisLedger(ctx, deduplication.RedisConfig{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			TTL:      config.DedupTTL,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rl.Close)
		ledger = rl
	} else {
		ledger = deduplication.NewMemoryLedger()
	}

	return &pipeline.FeedRun{
		Processor: a.processor,
		Source:    src,
		Dedup:     deduplication.NewDeduplicator(ledger),
		FeedURL:   rssfeeds.ResolveFeedURL(feed),
		Count:     rssfeeds.DefaultCount,
		Limit:     1,
		Publish:   publishEnabled,
	}, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Printf("Warning: close failed: %v", err)
		}
	}
}
