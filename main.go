package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"brainrot/api"
	"brainrot/config"
	"brainrot/kafka"
	"brainrot/pipeline"
	"brainrot/rssfeeds"
	"brainrot/scheduler"
	"brainrot/types"
)

func main() {
	var cli config.Config
	flag.StringVar(&cli.ElevenLabsAPIKey, "elevenlabs-api-key", "", "API Key for ElevenLabs")
	flag.StringVar(&cli.VoiceID, "voice-id", "", "Voice ID for ElevenLabs")
	flag.StringVar(&cli.BackgroundFolder, "background-folder", "", "Folder with background videos")
	flag.StringVar(&cli.Input, "input", "", "Input text file")
	flag.StringVar(&cli.Output, "output", "", "Output video file")
	flag.StringVar(&cli.WordList, "word-list", "", "Extra word=replacement list for the profanity filter")
	flag.StringVar(&cli.FeedURL, "feed", "", "Feed preset or URL for -cron and /api/rss/refresh")
	flag.StringVar(&cli.CronSchedule, "cron", "", "Render new feed stories on this cron schedule")
	flag.StringVar(&cli.APIPort, "port", "", "API server port")
	flag.BoolVar(&cli.LoopShortClips, "loop-short-clips", false, "Loop backgrounds shorter than the narration")
	flag.BoolVar(&cli.WriteSRT, "write-srt", false, "Write an .srt sidecar next to the video")
	configPath := flag.String("config", config.ConfigFile, "JSON config file")
	batchMode := flag.Bool("batch", false, "Render every .txt/.json file in the input directory")
	inputDir := flag.String("input-dir", config.InputDir, "Input directory for -batch")
	apiMode := flag.Bool("api", false, "Run the HTTP render API")
	kafkaMode := flag.Bool("kafka", false, "Consume render requests from Kafka")
	publishFlag := flag.Bool("publish", false, "Publish finished videos to YouTube")
	flag.Parse()

	// flags whose name is a config key override the file even when zero
	var explicit []string
	flag.Visit(func(f *flag.Flag) { explicit = append(explicit, f.Name) })

	cfg, err := config.Load(cli, *configPath, explicit...)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cronMode := cli.CronSchedule != ""
	single := !*batchMode && !*apiMode && !*kafkaMode && !cronMode

	required := []string{"elevenlabs-api-key"}
	if single {
		required = append(required, "voice-id", "background-folder", "input", "output")
	}
	if err := cfg.Require(required...); err != nil {
		log.Fatal(err)
	}

	a, err := newApp(ctx, cfg, *publishFlag)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	switch {
	case *batchMode:
		log.Println("Running in BATCH mode")
		if err := a.processor.ProcessFromDirectory(ctx, *inputDir); err != nil {
			log.Fatalf("Batch processing finished with errors: %v", err)
		}
	case *kafkaMode:
		runKafka(ctx, a)
	case *apiMode:
		runAPI(ctx, a, *publishFlag)
	case cronMode:
		runCron(ctx, a, *publishFlag)
	default:
		runSingle(ctx, a, *publishFlag)
	}
}

func runSingle(ctx context.Context, a *app, publish bool) {
	req, err := pipeline.ReadRequest(a.cfg.Input)
	if err != nil {
		log.Fatal(err)
	}
	req.Output = a.cfg.Output
	req.Publish = req.Publish || publish

	out, err := a.processor.Render(ctx, req)
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	log.Printf("Output saved: %s", out)
}

func runKafka(ctx context.Context, a *app) {
	log.Println("Running in KAFKA consumer mode")
	log.Printf("Kafka Brokers: %v", a.cfg.KafkaBrokers)
	log.Printf("Topic: %s", a.cfg.KafkaTopic)
	log.Printf("Consumer Group: %s", a.cfg.KafkaGroupID)

	handlerCfg := kafka.RenderHandlerConfig{Render: a.processor.Run, Tracker: a.tracker}
	if a.cfg.KafkaResultTopic != "" {
		producer, err := kafka.NewResultProducer(a.cfg.KafkaBrokers, a.cfg.KafkaResultTopic)
		if err != nil {
			log.Fatalf("Failed to create result producer: %v", err)
		}
		defer producer.Close()
		handlerCfg.Results = producer
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: a.cfg.KafkaBrokers,
		Topic:   a.cfg.KafkaTopic,
		GroupID: a.cfg.KafkaGroupID,
		Handler: kafka.NewRenderHandler(handlerCfg),
	})
	if err != nil {
		log.Fatalf("Failed to create Kafka consumer: %v", err)
	}
	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("Kafka consumer failed: %v", err)
	}

	<-ctx.Done()
	log.Println("Shutdown signal received")
	if err := consumer.Close(); err != nil {
		log.Printf("Error closing consumer: %v", err)
	}
}

func runAPI(ctx context.Context, a *app, publish bool) {
	log.Println("Running in API mode")

	cfg := api.Config{
		Store: a.store,
		Render: func(ctx context.Context, req types.RenderRequest) (*pipeline.Result, error) {
			req.Publish = req.Publish || publish
			return a.processor.Run(ctx, req)
		},
	}
	if a.cfg.FeedURL != "" {
		run, err := a.feedRun(ctx, a.cfg.FeedURL, publish)
		if err != nil {
			log.Fatalf("Failed to set up feed: %v", err)
		}
		cfg.Feed = run.Run
	}

	server, err := api.NewServer(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	addr := ":" + strings.TrimPrefix(a.cfg.APIPort, ":")
	httpServer := &http.Server{Addr: addr, Handler: server.NewRouter()}

	log.Printf("API Server listening on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /api/render       - Queue a render")
	log.Println("   GET  /api/render/:id   - Job status")
	if cfg.Feed != nil {
		log.Println("   POST /api/rss/refresh  - Render new feed stories")
	}
	log.Println("   GET  /api/health       - Health check")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	server.Wait()
}

func runCron(ctx context.Context, a *app, publish bool) {
	feed := a.cfg.FeedURL
	if feed == "" {
		feed = rssfeeds.DefaultFeedPreset
	}
	log.Printf("Running in CRON mode (feed: %s)", feed)

	run, err := a.feedRun(ctx, feed, publish)
	if err != nil {
		log.Fatalf("Failed to set up feed: %v", err)
	}

	s := scheduler.New(ctx, run.Run)
	if err := s.Start(a.cfg.CronSchedule); err != nil {
		log.Fatal(err)
	}
	<-ctx.Done()
	log.Println("Shutdown signal received")
	s.Stop()
}
