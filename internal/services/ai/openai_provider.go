// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider serves requests through an OpenAI-compatible cloud API.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.CloudKey)
	if config.CloudBaseURL != "" {
		clientConfig.BaseURL = config.CloudBaseURL
	}
	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenAIProvider) Name() string        { return "cloud" }
func (p *OpenAIProvider) TextModel() string   { return p.config.CloudTextModel }
func (p *OpenAIProvider) VisionModel() string { return p.config.CloudVisionModel }

// Ping issues a minimal generation call to verify reachability and credentials.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	req := openai.ChatCompletionRequest{
		Model:     p.config.CloudTextModel,
		MaxTokens: 1,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "ping"},
		},
	}
	if _, err := p.client.CreateChatCompletion(ctx, req); err != nil {
		return NewProviderError("probe", "cloud provider unreachable", err)
	}
	return nil
}

func (p *OpenAIProvider) GenerateText(ctx context.Context, req GenerationRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.CloudTextModel,
		Messages:    p.buildMessages(req, false),
		Temperature: p.temperature(req),
		MaxTokens:   p.maxTokens(req),
	})
	if err != nil {
		return "", NewProviderError("completion", "failed to create completion", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{Type: ErrTypeProvider, Operation: "completion", Message: "empty completion response"}
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) GenerateVision(ctx context.Context, req GenerationRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.config.CloudVisionModel,
		Messages:    p.buildMessages(req, true),
		Temperature: p.temperature(req),
		MaxTokens:   p.maxTokens(req),
	})
	if err != nil {
		return "", NewProviderError("vision", "failed to create vision completion", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{Type: ErrTypeProvider, Operation: "vision", Message: "empty vision response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// StreamText routes through the non-streaming path and delivers the full
// response as a single fragment. The cloud backend is treated as
// non-streaming in this design; only the local provider streams incrementally.
func (p *OpenAIProvider) StreamText(ctx context.Context, req GenerationRequest, onDelta func(string) error) (string, error) {
	var (
		content string
		err     error
	)
	if len(req.Image) > 0 {
		content, err = p.GenerateVision(ctx, req)
	} else {
		content, err = p.GenerateText(ctx, req)
	}
	if err != nil {
		return "", err
	}
	if onDelta != nil {
		if cbErr := onDelta(content); cbErr != nil {
			return "", cbErr
		}
	}
	return content, nil
}

// buildMessages converts history turns plus the final user prompt to the wire
// shape; with an image the final message becomes a multi-content part list
// carrying the image as a base64 data URI.
func (p *OpenAIProvider) buildMessages(req GenerationRequest, withImage bool) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}

	if withImage && len(req.Image) > 0 {
		dataURI := fmt.Sprintf("data:%s;base64,%s", req.ImageMIME, base64.StdEncoding.EncodeToString(req.Image))
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURI,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		})
		return messages
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})
	return messages
}

func (p *OpenAIProvider) temperature(req GenerationRequest) float32 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return p.config.Temperature
}

func (p *OpenAIProvider) maxTokens(req GenerationRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return p.config.MaxTokens
}
