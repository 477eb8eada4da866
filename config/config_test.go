package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestFromFile_MissingIsEmpty(t *testing.T) {
	cfg, err := FromFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.VoiceID != "" || cfg.Input != "" {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestFromFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, "{not json")
	if _, err := FromFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets", "config.json")
	writeFile(t, path, `{"voice-id": "file-voice", "input": "file.txt", "output": "file-out", "loop-short-clips": true}`)

	t.Setenv("ELEVENLABS_VOICE_ID", "env-voice")
	t.Setenv("ELEVENLABS_API_KEY", "env-key")
	t.Setenv("INPUT_FILE", "env.txt")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "k1:9092, k2:9092")

	cfg, err := Load(Config{Input: "cli.txt"}, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cases := []struct {
		name, got, want string
	}{
		{"cli beats file and env", cfg.Input, "cli.txt"},
		{"file beats env", cfg.VoiceID, "file-voice"},
		{"env fills gaps", cfg.ElevenLabsAPIKey, "env-key"},
		{"file only", cfg.Output, "file-out"},
		{"default", cfg.BackgroundFolder, BackgroundsDir},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.got != c.want {
				t.Fatalf("got %q, want %q", c.got, c.want)
			}
		})
	}
	if !cfg.LoopShortClips {
		t.Fatalf("expected loop-short-clips from file")
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("KafkaBrokers = %q", cfg.KafkaBrokers)
	}
}

func TestRequire(t *testing.T) {
	cfg := Config{ElevenLabsAPIKey: "k", VoiceID: "v"}
	if err := cfg.Require("elevenlabs-api-key", "voice-id"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := cfg.Require("voice-id", "input")
	if !errors.Is(err, ErrMissingParam) {
		t.Fatalf("expected ErrMissingParam, got %v", err)
	}
	var mp *MissingParamError
	if !errors.As(err, &mp) || mp.Key != "input" {
		t.Fatalf("expected missing key input, got %v", err)
	}

	if err := cfg.Require("bogus"); err == nil || errors.Is(err, ErrMissingParam) {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoad_ExplicitFalseBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, `{"loop-short-clips": true, "write-srt": true, "voice-id": "file-voice"}`)
	t.Setenv("WRITE_SRT", "true")

	cfg, err := Load(Config{}, path, "loop-short-clips", "write-srt", "not-a-key")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LoopShortClips || cfg.WriteSRT {
		t.Fatalf("explicit false flags overridden: %+v", cfg)
	}
	if cfg.VoiceID != "file-voice" {
		t.Fatalf("unlisted key should still come from file, got %q", cfg.VoiceID)
	}

	cfg, err = Load(Config{}, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.LoopShortClips || !cfg.WriteSRT {
		t.Fatalf("unset flags should fall through: %+v", cfg)
	}
}
