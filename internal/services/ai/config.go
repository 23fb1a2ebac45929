// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	// Cloud provider (OpenAI-compatible API)
	CloudKey         string
	CloudBaseURL     string
	CloudTextModel   string
	CloudVisionModel string
	WhisperModel     string

	// Local provider (Ollama)
	LocalHost        string
	LocalTextModel   string
	LocalVisionModel string

	// Selection policy
	PreferCloud bool

	// Timeouts per latency class
	ProbeTimeout      time.Duration // availability checks, short
	TextTimeout       time.Duration // text generation, medium
	VisionTimeout     time.Duration // image generation, long
	TranscribeTimeout time.Duration // local CLI transcription subprocess

	// Model parameters
	Temperature float32
	MaxTokens   int

	// Local CLI transcription tool (whisper.cpp style); empty disables it.
	TranscribeCLI string
}

func (c *Config) Validate() error {
	if c.CloudTextModel == "" && c.LocalTextModel == "" {
		return NewConfigError("at least one text model must be configured")
	}
	if c.ProbeTimeout <= 0 || c.TextTimeout <= 0 || c.VisionTimeout <= 0 {
		return NewConfigError("timeouts must be positive")
	}
	if c.TranscribeTimeout <= 0 {
		return NewConfigError("transcribe timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		CloudTextModel:   "gpt-4o-mini",
		CloudVisionModel: "gpt-4o",
		WhisperModel:     "whisper-1",

		LocalHost:        "http://localhost:11434",
		LocalTextModel:   "llama3",
		LocalVisionModel: "llava",

		PreferCloud: true,

		ProbeTimeout:      5 * time.Second,
		TextTimeout:       30 * time.Second,
		VisionTimeout:     90 * time.Second,
		TranscribeTimeout: 60 * time.Second,

		Temperature: 0.7,
		MaxTokens:   1024,
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("ai.Config{cloud=%s/%s local=%s/%s preferCloud=%v}",
		c.CloudTextModel, c.CloudVisionModel, c.LocalTextModel, c.LocalVisionModel, c.PreferCloud)
}
