// File: internal/services/ai/types.go
package ai

// Turn is one prior exchange replayed to the provider as conversation context.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// GenerationRequest is the provider-ready payload built by the composer.
// Immutable once constructed.
type GenerationRequest struct {
	Prompt      string
	Image       []byte
	ImageMIME   string
	History     []Turn
	Temperature float32
	MaxTokens   int
}

// ContentKind tags what sort of response a GenerationResult carries.
type ContentKind string

const (
	KindText         ContentKind = "text"
	KindImageCaption ContentKind = "image-caption"
	KindImageQA      ContentKind = "image-qa"
	KindStreamed     ContentKind = "streamed"
)

// FallbackModel is the model identifier carried by failure results.
const FallbackModel = "fallback"

// GenerationResult is the normalized outcome of any gateway operation.
// On failure Content carries a canned, user-safe message and Err the
// diagnostic detail; Content is never empty.
type GenerationResult struct {
	Success bool        `json:"success"`
	Content string      `json:"content"`
	Model   string      `json:"model"`
	Kind    ContentKind `json:"kind"`
	Err     string      `json:"error,omitempty"`
}

// fallbackCopy is the fixed user-facing message per modality. Provider error
// strings are never shown to end users; they travel in Err only.
var fallbackCopy = map[ContentKind]string{
	KindText:         "Sorry, I can't reach the AI service right now. Please try again in a moment.",
	KindImageCaption: "Sorry, I can't look at images right now. Please try again in a moment.",
	KindImageQA:      "Sorry, I can't answer questions about images right now. Please try again in a moment.",
	KindStreamed:     "Sorry, the live response was interrupted. Please try again in a moment.",
}

// FallbackResult builds the canned failure result for the given modality.
func FallbackResult(kind ContentKind, cause error) GenerationResult {
	res := GenerationResult{
		Success: false,
		Content: fallbackCopy[kind],
		Model:   FallbackModel,
		Kind:    kind,
	}
	if res.Content == "" {
		res.Content = fallbackCopy[KindText]
	}
	if cause != nil {
		res.Err = cause.Error()
	}
	return res
}

// ProviderKind identifies one configured backend capability.
type ProviderKind string

const (
	KindCloudText       ProviderKind = "cloud-text"
	KindCloudMultimodal ProviderKind = "cloud-multimodal"
	KindLocalText       ProviderKind = "local-text"
	KindLocalVision     ProviderKind = "local-vision"
)

// ProviderDescriptor records one backend's probed state. Created at startup
// from configuration and mutated only by the health probe.
type ProviderDescriptor struct {
	Kind      ProviderKind `json:"kind"`
	Model     string       `json:"model"`
	Available bool         `json:"available"`
	Priority  int          `json:"priority"`
	Detail    string       `json:"detail,omitempty"`
}

// Mode is the gateway's service mode, decided once from probe results.
type Mode string

const (
	ModeUninitialized Mode = "uninitialized"
	ModeProbing       Mode = "probing"
	ModeCloud         Mode = "cloud"
	ModeLocal         Mode = "local"
	ModeUnavailable   Mode = "unavailable"
)

// Status is the read-only snapshot served by diagnostics endpoints.
type Status struct {
	Mode      Mode                 `json:"mode"`
	Available bool                 `json:"available"`
	Providers []ProviderDescriptor `json:"providers"`
}
