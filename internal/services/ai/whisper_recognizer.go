// File: internal/services/ai/whisper_recognizer.go
package ai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// WhisperRecognizer implements SpeechRecognizer over the cloud speech API.
// Whisper detects encoding and sample rate from the audio container itself;
// the RecognitionConfig is accepted for parity with backends that need the
// profile spelled out, and travels into error messages for diagnostics.
type WhisperRecognizer struct {
	client *openai.Client
	model  string
}

func NewWhisperRecognizer(config *Config) *WhisperRecognizer {
	clientConfig := openai.DefaultConfig(config.CloudKey)
	if config.CloudBaseURL != "" {
		clientConfig.BaseURL = config.CloudBaseURL
	}
	return &WhisperRecognizer{
		client: openai.NewClientWithConfig(clientConfig),
		model:  config.WhisperModel,
	}
}

func (w *WhisperRecognizer) Recognize(ctx context.Context, audioPath string, rc RecognitionConfig) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", NewProviderError("recognize",
			"speech recognition failed ("+rc.Encoding+")", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
