// File: internal/services/ai/interface.go
package ai

import "context"

// Provider is one backend capable of producing model-generated text, reached
// over network (cloud API) or local process (inference server). Exactly one
// provider serves a given request; the gateway never fans out.
type Provider interface {
	Name() string
	TextModel() string
	VisionModel() string

	// GenerateText produces a completion for a text-only request.
	GenerateText(ctx context.Context, req GenerationRequest) (string, error)

	// GenerateVision produces a completion for a request carrying an image.
	GenerateVision(ctx context.Context, req GenerationRequest) (string, error)

	// StreamText pushes response fragments to onDelta as they arrive and
	// returns the accumulated full text. Backends without incremental output
	// deliver the whole response as a single fragment.
	StreamText(ctx context.Context, req GenerationRequest, onDelta func(string) error) (string, error)
}

// Pinger is implemented by providers whose reachability can be verified with
// a minimal generation call.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModelLister is implemented by providers that can report which models their
// backend has installed.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// SpeechRecognizer converts an audio file to text using one
// (encoding, sample-rate) configuration.
type SpeechRecognizer interface {
	Recognize(ctx context.Context, audioPath string, cfg RecognitionConfig) (string, error)
}

// Logger mirrors the services logging interface so this package has no
// dependency on its parent.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
