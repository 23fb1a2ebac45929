// File: internal/services/ai/transcribe.go
package ai

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RecognitionConfig is one (encoding, sample-rate) profile tried against the
// cloud speech backend. Attempts are ephemeral; nothing here is persisted.
type RecognitionConfig struct {
	Encoding   string
	SampleRate int
}

// The cascade tries the default profile first, then the alternates strictly
// in this order, sequentially. Cloud first because of higher accuracy, local
// CLI second because it is offline-capable and free per call. Most failures
// are categorical (wrong encoding), so parallel racing would only waste
// remote calls.
var (
	defaultRecognition = RecognitionConfig{Encoding: "OGG_OPUS", SampleRate: 16000}

	alternateRecognitions = []RecognitionConfig{
		{Encoding: "LINEAR16", SampleRate: 16000},
		{Encoding: "LINEAR16", SampleRate: 44100},
		{Encoding: "MP3", SampleRate: 44100},
		{Encoding: "FLAC", SampleRate: 48000},
	}
)

// TranscriptionResult reports the cascade outcome. On failure the caller is
// responsible for substituting its own placeholder copy; this component does
// not invent UI text.
type TranscriptionResult struct {
	Success       bool   `json:"success"`
	Transcription string `json:"transcription,omitempty"`
	Source        string `json:"source,omitempty"` // "cloud" or "cli"
	Err           string `json:"error,omitempty"`
}

// Transcriber converts an audio file to text using the best available
// method: cloud speech recognition across the configured profiles, then a
// local CLI tool, returning on first success.
type Transcriber struct {
	config     *Config
	recognizer SpeechRecognizer // nil when no cloud speech backend is configured
	logger     Logger
}

func NewTranscriber(config *Config, recognizer SpeechRecognizer, logger Logger) *Transcriber {
	return &Transcriber{config: config, recognizer: recognizer, logger: logger}
}

// Transcribe runs the cascade against the given audio file.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) TranscriptionResult {
	if _, err := os.Stat(audioPath); err != nil {
		return failure(NewNotFoundError("transcribe", audioPath))
	}

	var lastErr error
	if t.recognizer != nil {
		text, err := t.transcribeCloud(ctx, audioPath)
		if err == nil && text != "" {
			return TranscriptionResult{Success: true, Transcription: text, Source: "cloud"}
		}
		lastErr = err
	}

	if t.config.TranscribeCLI != "" {
		text, err := t.transcribeCLI(ctx, audioPath)
		if err == nil && text != "" {
			return TranscriptionResult{Success: true, Transcription: text, Source: "cli"}
		}
		if err != nil {
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = NewTranscriptionError("no transcription backend configured", nil)
	}
	return failure(NewTranscriptionError("all transcription attempts failed", lastErr))
}

// transcribeCloud tries the default profile, then each alternate in the fixed
// order, stopping at the first non-empty transcript. Every failed attempt is
// logged and superseded by the next; only the last error survives.
func (t *Transcriber) transcribeCloud(ctx context.Context, audioPath string) (string, error) {
	configs := append([]RecognitionConfig{defaultRecognition}, alternateRecognitions...)

	var lastErr error
	for _, rc := range configs {
		text, err := t.recognizer.Recognize(ctx, audioPath, rc)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err == nil {
			err = fmt.Errorf("empty transcript for %s/%d", rc.Encoding, rc.SampleRate)
		}
		t.logger.Warn("cloud transcription attempt failed",
			"encoding", rc.Encoding,
			"sample_rate", rc.SampleRate,
			"error", err,
		)
		lastErr = err
	}
	return "", lastErr
}

// transcribeCLI shells out to the local transcription tool, which writes its
// transcript to a .txt sidecar next to the audio file. The sidecar is a
// transient artifact owned by this call and is removed on every exit path.
func (t *Transcriber) transcribeCLI(ctx context.Context, audioPath string) (string, error) {
	if _, err := exec.LookPath(t.config.TranscribeCLI); err != nil {
		return "", NewTranscriptionError("local transcription tool not found", err)
	}

	cliCtx, cancel := context.WithTimeout(ctx, t.config.TranscribeTimeout)
	defer cancel()

	base := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	sidecar := base + ".txt"
	defer os.Remove(sidecar)

	cmd := exec.CommandContext(cliCtx, t.config.TranscribeCLI, "-f", audioPath, "-otxt", "-of", base)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", NewTranscriptionError(fmt.Sprintf("running %s: %s", t.config.TranscribeCLI, strings.TrimSpace(string(out))), err)
	}

	raw, err := os.ReadFile(sidecar)
	if err != nil {
		return "", NewTranscriptionError("reading transcription output", err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", NewTranscriptionError("local transcription produced no text", nil)
	}
	return text, nil
}

func failure(err error) TranscriptionResult {
	return TranscriptionResult{Success: false, Err: err.Error()}
}
