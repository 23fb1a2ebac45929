// File: internal/services/ai/ollama_provider.go
package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaProvider serves requests through a local Ollama inference server.
type OllamaProvider struct {
	config *Config
	client *api.Client
}

func NewOllamaProvider(config *Config) (*OllamaProvider, error) {
	base, err := url.Parse(config.LocalHost)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama host URL: %w", err)
	}
	return &OllamaProvider{
		config: config,
		// Timeouts are applied per call through the request context, so the
		// HTTP client itself carries none (streaming calls outlive any fixed
		// client timeout).
		client: api.NewClient(base, &http.Client{}),
	}, nil
}

func (p *OllamaProvider) Name() string        { return "local" }
func (p *OllamaProvider) TextModel() string   { return p.config.LocalTextModel }
func (p *OllamaProvider) VisionModel() string { return p.config.LocalVisionModel }

// ListModels returns the names of models installed on the local server.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	resp, err := p.client.List(ctx)
	if err != nil {
		return nil, NewProviderError("probe", "cannot reach local inference server", err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (p *OllamaProvider) GenerateText(ctx context.Context, req GenerationRequest) (string, error) {
	return p.chat(ctx, p.config.LocalTextModel, req, false)
}

func (p *OllamaProvider) GenerateVision(ctx context.Context, req GenerationRequest) (string, error) {
	return p.chat(ctx, p.config.LocalVisionModel, req, true)
}

func (p *OllamaProvider) chat(ctx context.Context, model string, req GenerationRequest, withImage bool) (string, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model:    model,
		Messages: p.buildMessages(req, withImage),
		Stream:   &stream,
		Options:  p.options(req),
	}

	var final api.ChatResponse
	err := p.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		final = resp
		return nil
	})
	if err != nil {
		return "", NewProviderError("completion", "local chat failed", err)
	}

	content := final.Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &AIError{Type: ErrTypeProvider, Operation: "completion", Message: "empty response from local model"}
	}
	return content, nil
}

// StreamText streams fragments as the local server produces them. A stream
// that ends without the server's done signal is treated as a failure: the
// caller sees either a complete accumulated text or an error, never silently
// truncated content.
func (p *OllamaProvider) StreamText(ctx context.Context, req GenerationRequest, onDelta func(string) error) (string, error) {
	model := p.config.LocalTextModel
	withImage := len(req.Image) > 0
	if withImage {
		model = p.config.LocalVisionModel
	}

	stream := true
	chatReq := &api.ChatRequest{
		Model:    model,
		Messages: p.buildMessages(req, withImage),
		Stream:   &stream,
		Options:  p.options(req),
	}

	var (
		full    strings.Builder
		sawDone bool
	)
	err := p.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		if resp.Message.Content != "" {
			full.WriteString(resp.Message.Content)
			if onDelta != nil {
				if cbErr := onDelta(resp.Message.Content); cbErr != nil {
					return cbErr
				}
			}
		}
		if resp.Done {
			sawDone = true
		}
		return nil
	})
	if err != nil {
		return "", NewProviderError("streaming", "local stream failed", err)
	}
	if !sawDone {
		return "", &AIError{Type: ErrTypeProvider, Operation: "streaming", Message: "stream ended before completion signal"}
	}
	return full.String(), nil
}

func (p *OllamaProvider) buildMessages(req GenerationRequest, withImage bool) []api.Message {
	messages := make([]api.Message, 0, len(req.History)+1)
	for _, turn := range req.History {
		messages = append(messages, api.Message{Role: turn.Role, Content: turn.Content})
	}

	last := api.Message{Role: "user", Content: req.Prompt}
	if withImage && len(req.Image) > 0 {
		last.Images = []api.ImageData{api.ImageData(req.Image)}
	}
	return append(messages, last)
}

func (p *OllamaProvider) options(req GenerationRequest) map[string]any {
	temperature := p.config.Temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}
	maxTokens := p.config.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}
	return map[string]any{
		"temperature": temperature,
		"num_predict": maxTokens,
	}
}
