// Package tts turns a script into narration audio.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"brainrot/config"
	"brainrot/types"
)

// Synthesizer renders text as speech into an audio file at outPath.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID, outPath string) error
}

// VoiceSettings mirrors the ElevenLabs voice_settings object.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings are the settings every narration is rendered with.
var DefaultVoiceSettings = VoiceSettings{
	Stability:       0,
	SimilarityBoost: 1,
	Style:           0,
	UseSpeakerBoost: true,
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// ElevenLabs calls the ElevenLabs text-to-speech endpoint.
type ElevenLabs struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewElevenLabs returns a client for the public API. Requests are bounded by
// config.SynthesisTimeout.
func NewElevenLabs(apiKey string) *ElevenLabs {
	return &ElevenLabs{
		apiKey:  apiKey,
		baseURL: config.ElevenLabsBaseURL,
		client:  &http.Client{Timeout: config.SynthesisTimeout},
	}
}

// WithBaseURL points the client at another host, mostly for tests.
func (e *ElevenLabs) WithBaseURL(u string) *ElevenLabs {
	e.baseURL = strings.TrimRight(u, "/")
	return e
}

// Synthesize posts text to the voice and streams the returned mp3 to outPath.
// The file only appears once the whole body has been received. Failures are
// reported as *types.SynthesisError and are not retried.
func (e *ElevenLabs) Synthesize(ctx context.Context, text, voiceID, outPath string) error {
	if strings.TrimSpace(text) == "" {
		return types.ErrEmptyInput
	}
	if voiceID == "" {
		return &types.SynthesisError{Err: fmt.Errorf("empty voice id")}
	}

	body, err := json.Marshal(speechRequest{
		Text:          text,
		ModelID:       config.ElevenLabsModel,
		VoiceSettings: DefaultVoiceSettings,
	})
	if err != nil {
		return &types.SynthesisError{Err: err}
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		e.baseURL, url.PathEscape(voiceID), url.QueryEscape(config.ElevenLabsOutputFormat))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &types.SynthesisError{Err: err}
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.client.Do(req)
	if err != nil {
		return &types.SynthesisError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &types.SynthesisError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if err := writeFile(outPath, resp.Body); err != nil {
		return &types.SynthesisError{Err: fmt.Errorf("failed to save narration: %w", err)}
	}
	return nil
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("empty audio response")
	}
	return os.Rename(tmp.Name(), path)
}
