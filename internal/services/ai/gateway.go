// File: internal/services/ai/gateway.go
package ai

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// defaultCaptionPrompt is used when an image arrives without any text.
const defaultCaptionPrompt = "Describe this image."

// Gateway is the single entry point for AI generation. It selects the active
// provider from the probed service mode, invokes it with a timeout matched to
// the latency class, and normalizes every outcome into a GenerationResult.
// Provider failures never propagate to callers as errors.
//
// The mode is decided once during Init. There is no runtime failover from
// cloud to local: if the cloud provider was selected at boot and a later call
// fails, that call returns the canned fallback response. Switching models
// mid-conversation would be worse than a visible, retryable failure.
type Gateway struct {
	config *Config
	cloud  Provider
	local  Provider
	prober *Prober
	logger Logger

	// state is written once by Init and only read afterwards; the lock keeps
	// the write visible to concurrent request goroutines.
	mu    sync.RWMutex
	state *ProbeState
}

func NewGateway(config *Config, cloud, local Provider, prober *Prober, logger Logger) *Gateway {
	return &Gateway{
		config: config,
		cloud:  cloud,
		local:  local,
		prober: prober,
		logger: logger,
		state:  &ProbeState{Mode: ModeUninitialized},
	}
}

// Init runs the startup health probe and settles the service mode.
func (g *Gateway) Init(ctx context.Context) {
	g.mu.Lock()
	g.state = &ProbeState{Mode: ModeProbing}
	g.mu.Unlock()

	state := g.prober.Run(ctx)

	g.mu.Lock()
	g.state = state
	g.mu.Unlock()
}

// GenerateText routes a text-only request to the active provider.
func (g *Gateway) GenerateText(ctx context.Context, prompt string, history []Turn) GenerationResult {
	provider, mode := g.active()
	if provider == nil {
		return FallbackResult(KindText, NewUnavailableError("generateText"))
	}

	callCtx, cancel := context.WithTimeout(ctx, g.config.TextTimeout)
	defer cancel()

	content, err := provider.GenerateText(callCtx, GenerationRequest{Prompt: prompt, History: history})
	if err != nil {
		g.logger.Error("text generation failed", "provider", provider.Name(), "error", err)
		return FallbackResult(KindText, err)
	}
	return GenerationResult{
		Success: true,
		Content: content,
		Model:   g.modelFor(mode, false),
		Kind:    KindText,
	}
}

// GenerateMultimodal routes a request carrying an image to the active
// provider's vision path. An empty imagePath delegates to GenerateText: an
// image-less multimodal call degrades to pure text by design.
func (g *Gateway) GenerateMultimodal(ctx context.Context, prompt, imagePath string, history []Turn) GenerationResult {
	if imagePath == "" {
		return g.GenerateText(ctx, prompt, history)
	}

	kind := KindImageQA
	if strings.TrimSpace(prompt) == "" {
		kind = KindImageCaption
		prompt = defaultCaptionPrompt
	}

	provider, mode := g.active()
	if provider == nil {
		return FallbackResult(kind, NewUnavailableError("generateMultimodal"))
	}

	image, err := os.ReadFile(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return FallbackResult(kind, NewNotFoundError("generateMultimodal", imagePath))
		}
		return FallbackResult(kind, NewProviderError("generateMultimodal", "reading image", err))
	}

	if mode == ModeLocal && !g.descriptorAvailable(KindLocalVision) {
		return FallbackResult(kind, &AIError{
			Type:      ErrTypeUnavailable,
			Operation: "generateMultimodal",
			Message:   "local vision model not installed",
		})
	}

	callCtx, cancel := context.WithTimeout(ctx, g.config.VisionTimeout)
	defer cancel()

	content, err := provider.GenerateVision(callCtx, GenerationRequest{
		Prompt:    prompt,
		Image:     image,
		ImageMIME: mimeFromExtension(imagePath),
		History:   history,
	})
	if err != nil {
		g.logger.Error("vision generation failed", "provider", provider.Name(), "error", err)
		return FallbackResult(kind, err)
	}
	return GenerationResult{
		Success: true,
		Content: content,
		Model:   g.modelFor(mode, true),
		Kind:    kind,
	}
}

// GenerateTemplated composes the prompt through the template and dispatches
// to the multimodal or text path. This is the primary entry point used by the
// chat pipeline.
func (g *Gateway) GenerateTemplated(ctx context.Context, prompt, templateText, imagePath string, history []Turn) GenerationResult {
	composed := ApplyTemplate(prompt, templateText)
	if imagePath != "" {
		return g.GenerateMultimodal(ctx, composed, imagePath, history)
	}
	return g.GenerateText(ctx, composed, history)
}

// StreamText delivers response fragments to onDelta as they arrive and
// returns the accumulated text. Only the local provider streams
// incrementally; the cloud provider delivers a single fragment.
func (g *Gateway) StreamText(ctx context.Context, prompt, imagePath string, onDelta func(string) error) GenerationResult {
	provider, mode := g.active()
	if provider == nil {
		return FallbackResult(KindStreamed, NewUnavailableError("streamText"))
	}

	req := GenerationRequest{Prompt: prompt}
	timeout := g.config.TextTimeout
	if imagePath != "" {
		image, err := os.ReadFile(imagePath)
		if err != nil {
			if os.IsNotExist(err) {
				return FallbackResult(KindStreamed, NewNotFoundError("streamText", imagePath))
			}
			return FallbackResult(KindStreamed, NewProviderError("streamText", "reading image", err))
		}
		req.Image = image
		req.ImageMIME = mimeFromExtension(imagePath)
		timeout = g.config.VisionTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	content, err := provider.StreamText(callCtx, req, onDelta)
	if err != nil {
		g.logger.Error("streaming failed", "provider", provider.Name(), "error", err)
		return FallbackResult(KindStreamed, err)
	}
	return GenerationResult{
		Success: true,
		Content: content,
		Model:   g.modelFor(mode, len(req.Image) > 0),
		Kind:    KindStreamed,
	}
}

// Status returns a read-only snapshot for diagnostics endpoints.
func (g *Gateway) Status() Status {
	g.mu.RLock()
	defer g.mu.RUnlock()

	status := Status{
		Mode:      g.state.Mode,
		Available: g.state.Mode == ModeCloud || g.state.Mode == ModeLocal,
	}
	status.Providers = append(status.Providers, g.state.Descriptors...)
	return status
}

func (g *Gateway) active() (Provider, Mode) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	switch g.state.Mode {
	case ModeCloud:
		return g.cloud, ModeCloud
	case ModeLocal:
		return g.local, ModeLocal
	}
	return nil, g.state.Mode
}

func (g *Gateway) descriptorAvailable(kind ProviderKind) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, d := range g.state.Descriptors {
		if d.Kind == kind {
			return d.Available
		}
	}
	return false
}

// modelFor reports the probed model name serving the given mode and
// modality, preferring the descriptor (which carries the exact installed
// name for local models).
func (g *Gateway) modelFor(mode Mode, vision bool) string {
	var kind ProviderKind
	switch {
	case mode == ModeCloud && vision:
		kind = KindCloudMultimodal
	case mode == ModeCloud:
		kind = KindCloudText
	case mode == ModeLocal && vision:
		kind = KindLocalVision
	default:
		kind = KindLocalText
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, d := range g.state.Descriptors {
		if d.Kind == kind && d.Model != "" {
			return d.Model
		}
	}
	return string(mode)
}

// mimeFromExtension maps the fixed set of supported image extensions to media
// types, defaulting to JPEG for anything unrecognized.
func mimeFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/jpeg"
	}
}
