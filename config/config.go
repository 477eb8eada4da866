package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingParam is returned by Require when a required key has no value in
// any layer.
var ErrMissingParam = errors.New("missing required parameter")

// MissingParamError names the missing key.
type MissingParamError struct {
	Key string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("%v '%s'. Provide it via CLI or %s", ErrMissingParam, e.Key, ConfigFile)
}

func (e *MissingParamError) Is(target error) bool { return target == ErrMissingParam }

// Config is the resolved runtime configuration. The json tag is the key used
// both on the command line and in the JSON config file; the env tag is the
// environment variable consulted when neither sets it.
type Config struct {
	ElevenLabsAPIKey string `json:"elevenlabs-api-key" env:"ELEVENLABS_API_KEY"`
	VoiceID          string `json:"voice-id" env:"ELEVENLABS_VOICE_ID"`
	BackgroundFolder string `json:"background-folder" env:"BACKGROUND_FOLDER"`
	Input            string `json:"input" env:"INPUT_FILE"`
	Output           string `json:"output" env:"OUTPUT_FILE"`

	FeedURL  string `json:"feed-url" env:"FEED_URL"`
	WordList string `json:"word-list" env:"WORD_LIST"`
	CacheDir string `json:"cache-dir" env:"CACHE_DIR"`

	LoopShortClips bool `json:"loop-short-clips" env:"LOOP_SHORT_CLIPS"`
	WriteSRT       bool `json:"write-srt" env:"WRITE_SRT"`

	S3Region         string `json:"s3-region" env:"S3_REGION"`
	S3Profile        string `json:"s3-profile" env:"S3_PROFILE"`
	S3UsePathStyle   bool   `json:"s3-use-path-style" env:"S3_USE_PATH_STYLE"`
	BackgroundBucket string `json:"background-bucket" env:"BACKGROUND_BUCKET"`
	BackgroundPrefix string `json:"background-prefix" env:"BACKGROUND_PREFIX"`
	UploadBucket     string `json:"upload-bucket" env:"UPLOAD_BUCKET"`
	UploadPrefix     string `json:"upload-prefix" env:"UPLOAD_PREFIX"`

	RedisAddr     string `json:"redis-addr" env:"REDIS_ADDR"`
	RedisPassword string `json:"redis-password" env:"REDIS_PASS"`

	KafkaBrokers []string `json:"kafka-brokers" env:"KAFKA_BOOTSTRAP_SERVERS"`
	KafkaTopic   string   `json:"kafka-topic" env:"KAFKA_TOPIC_RENDER_REQUESTS"`
	KafkaGroupID string   `json:"kafka-group-id" env:"KAFKA_CONSUMER_GROUP_ID"`
	// KafkaResultTopic receives finished jobs when set.
	KafkaResultTopic string `json:"kafka-result-topic" env:"KAFKA_TOPIC_RENDER_RESULTS"`

	CronSchedule string `json:"cron" env:"CRON_SCHEDULE"`

	YouTubeCredentials string `json:"youtube-credentials" env:"YOUTUBE_SERVICE_ACCOUNT"`
	CohereAPIKey       string `json:"cohere-api-key" env:"COHERE_API_KEY"`

	APIPort string `json:"api-port" env:"PORT"`
}

// Defaults returns the built-in values used when no layer sets a key.
func Defaults() Config {
	return Config{
		BackgroundFolder: BackgroundsDir,
		CacheDir:         os.TempDir(),
		KafkaBrokers:     []string{"localhost:9093"},
		KafkaTopic:       "render-requests",
		KafkaGroupID:     "brainrot-render-group",
		APIPort:          "8081",
	}
}

// Load resolves the configuration with precedence
// cli > config file > environment (.env included) > defaults.
// A zero cli value normally falls through to the next layer; keys listed in
// explicit (set on the command line, e.g. -write-srt=false) keep the cli
// value even when it is zero. A missing config file is not an error.
func Load(cli Config, path string, explicit ...string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	file, err := FromFile(path)
	if err != nil {
		return Config{}, err
	}
	return Override(Merge(cli, file, FromEnv(), Defaults()), cli, explicit...), nil
}

// FromFile reads a JSON config file. A missing file yields an empty Config.
func FromFile(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv builds a Config from the env tags of its fields.
func FromEnv() Config {
	var cfg Config
	v := reflect.ValueOf(&cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		raw := strings.TrimSpace(os.Getenv(t.Field(i).Tag.Get("env")))
		if raw == "" {
			continue
		}
		f := v.Field(i)
		switch f.Kind() {
		case reflect.String:
			f.SetString(raw)
		case reflect.Bool:
			if b, err := strconv.ParseBool(raw); err == nil {
				f.SetBool(b)
			}
		case reflect.Slice:
			f.Set(reflect.ValueOf(splitList(raw)))
		}
	}
	return cfg
}

// Merge returns a Config where each field takes the first non-zero value
// among layers, in order.
func Merge(layers ...Config) Config {
	var out Config
	dst := reflect.ValueOf(&out).Elem()
	for _, layer := range layers {
		src := reflect.ValueOf(layer)
		for i := 0; i < dst.NumField(); i++ {
			if dst.Field(i).IsZero() && !src.Field(i).IsZero() {
				dst.Field(i).Set(src.Field(i))
			}
		}
	}
	return out
}

// Override copies the fields named by keys (json tags) from src into dst,
// zero values included. Unknown keys are ignored.
func Override(dst, src Config, keys ...string) Config {
	d := reflect.ValueOf(&dst).Elem()
	v := reflect.ValueOf(src)
	t := v.Type()
	for _, key := range keys {
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).Tag.Get("json") == key {
				d.Field(i).Set(v.Field(i))
			}
		}
	}
	return dst
}

// Require checks that every named key (json tag) has a value.
func (c Config) Require(keys ...string) error {
	v := reflect.ValueOf(c)
	t := v.Type()
	for _, key := range keys {
		found := false
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).Tag.Get("json") != key {
				continue
			}
			found = true
			if v.Field(i).IsZero() {
				return &MissingParamError{Key: key}
			}
		}
		if !found {
			return fmt.Errorf("unknown config key %q", key)
		}
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
