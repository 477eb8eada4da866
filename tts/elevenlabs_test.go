package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"brainrot/types"
)

func TestSynthesize_RequestShape(t *testing.T) {
	var got speechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/v1/text-to-speech/voice-123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if f := r.URL.Query().Get("output_format"); f != "mp3_44100_128" {
			t.Errorf("output_format = %q", f)
		}
		if k := r.Header.Get("xi-api-key"); k != "secret" {
			t.Errorf("xi-api-key = %q", k)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3fake-mp3-bytes"))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "sub", "narration.mp3")
	client := NewElevenLabs("secret").WithBaseURL(srv.URL)

	if err := client.Synthesize(context.Background(), "hello there", "voice-123", out); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if got.Text != "hello there" || got.ModelID != "eleven_multilingual_v2" {
		t.Fatalf("unexpected body: %+v", got)
	}
	if got.VoiceSettings != DefaultVoiceSettings {
		t.Fatalf("voice settings = %+v", got.VoiceSettings)
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "ID3fake-mp3-bytes" {
		t.Fatalf("output = %q, %v", data, err)
	}
}

func TestSynthesize_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"quota exceeded"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "narration.mp3")
	err := NewElevenLabs("bad").WithBaseURL(srv.URL).Synthesize(context.Background(), "hi", "v", out)

	if !errors.Is(err, types.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
	var se *types.SynthesisError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %+v", se)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no file expected after failure: %v", err)
	}
}

func TestSynthesize_TransportAndInputErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewElevenLabs("k").WithBaseURL(url)
	out := filepath.Join(t.TempDir(), "n.mp3")

	if err := client.Synthesize(context.Background(), "hi", "v", out); !errors.Is(err, types.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis for closed server, got %v", err)
	}
	if err := client.Synthesize(context.Background(), "   ", "v", out); !errors.Is(err, types.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if err := client.Synthesize(context.Background(), "hi", "", out); !errors.Is(err, types.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis for empty voice, got %v", err)
	}
}

func TestSynthesize_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audio"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewElevenLabs("k").WithBaseURL(srv.URL).Synthesize(ctx, "hi", "v", filepath.Join(t.TempDir(), "n.mp3"))
	if !errors.Is(err, context.Canceled) || !errors.Is(err, types.ErrSynthesis) {
		t.Fatalf("expected canceled synthesis error, got %v", err)
	}
}
