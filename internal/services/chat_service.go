// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/iyunix/go-chatpal/internal/domain"
	"github.com/iyunix/go-chatpal/internal/repository"
	"github.com/iyunix/go-chatpal/internal/services/ai"
)

// ErrUnauthorized is returned when a user touches a chat they don't own.
var ErrUnauthorized = errors.New("chat not found or unauthorized")

// voicePlaceholder is substituted for the user's message when every
// transcription attempt failed. The cascade itself reports only the failure;
// UI copy is this caller's job.
const voicePlaceholder = "voice message, transcription unavailable"

const maxTitleLength = 40

// ChatService orchestrates the chat pipeline: ownership checks, template
// lookup, context assembly, gateway invocation and persistence of both sides
// of the exchange.
type ChatService struct {
	chatRepo     repository.ChatRepository
	messageRepo  repository.MessageRepository
	templateRepo repository.TemplateRepository
	gateway      *ai.Gateway
	transcriber  *ai.Transcriber
	contextLimit int
	logger       Logger
}

func NewChatService(
	chatRepo repository.ChatRepository,
	messageRepo repository.MessageRepository,
	templateRepo repository.TemplateRepository,
	gateway *ai.Gateway,
	transcriber *ai.Transcriber,
	contextLimit int,
	logger Logger,
) (*ChatService, error) {
	if chatRepo == nil || messageRepo == nil || templateRepo == nil {
		return nil, errors.New("chat service: repositories are required")
	}
	if gateway == nil {
		return nil, errors.New("chat service: AI gateway is required")
	}
	if transcriber == nil {
		return nil, errors.New("chat service: transcriber is required")
	}
	if contextLimit <= 0 {
		contextLimit = 6
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &ChatService{
		chatRepo:     chatRepo,
		messageRepo:  messageRepo,
		templateRepo: templateRepo,
		gateway:      gateway,
		transcriber:  transcriber,
		contextLimit: contextLimit,
		logger:       logger,
	}, nil
}

func (s *ChatService) CreateChat(ctx context.Context, userID uint, title string) (*domain.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "New chat"
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		title = string([]rune(title)[:maxTitleLength])
	}
	return s.chatRepo.Create(ctx, &domain.Chat{UserID: userID, Title: title})
}

func (s *ChatService) GetUserChats(ctx context.Context, userID uint) ([]domain.Chat, error) {
	return s.chatRepo.FindByUserID(ctx, userID)
}

func (s *ChatService) GetChatMessages(ctx context.Context, userID, chatID uint) ([]domain.Message, error) {
	if err := s.authorize(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return s.messageRepo.FindByChatID(ctx, chatID)
}

func (s *ChatService) DeleteChat(ctx context.Context, userID, chatID uint) error {
	if err := s.authorize(ctx, userID, chatID); err != nil {
		return err
	}
	return s.chatRepo.Delete(ctx, chatID, userID)
}

// SendMessage runs the full exchange: persist the user's message, generate a
// reply through the gateway and persist it. The assistant message is stored
// even when the gateway degraded to fallback copy, so the conversation
// history stays honest about what the user saw.
func (s *ChatService) SendMessage(ctx context.Context, userID, chatID uint, text, imagePath string, templateID uint) (*domain.Message, error) {
	if err := s.authorize(ctx, userID, chatID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" && imagePath == "" {
		return nil, errors.New("message is empty")
	}

	templateText := s.loadTemplate(ctx, userID, templateID)

	recent, err := s.messageRepo.FindRecent(ctx, chatID, s.contextLimit)
	if err != nil {
		s.logger.Warn("loading recent messages failed", "chat_id", chatID, "error", err)
	}
	history := ai.BuildContext(recent, s.contextLimit)

	if _, err := s.messageRepo.Create(ctx, &domain.Message{
		ChatID:    chatID,
		Role:      domain.RoleUser,
		Content:   text,
		ImagePath: imagePath,
	}); err != nil {
		return nil, err
	}

	result := s.gateway.GenerateTemplated(ctx, text, templateText, imagePath, history)

	reply := &domain.Message{
		ChatID:  chatID,
		Role:    domain.RoleAssistant,
		Content: result.Content,
		Model:   result.Model,
	}
	if _, err := s.messageRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	if err := s.chatRepo.TouchUpdatedAt(ctx, chatID); err != nil {
		s.logger.Warn("touching chat failed", "chat_id", chatID, "error", err)
	}

	s.logger.Info("message exchanged",
		"chat_id", chatID,
		"model", result.Model,
		"success", result.Success,
	)
	return reply, nil
}

// SendVoiceMessage transcribes the audio first, then runs the normal message
// pipeline with the transcript (or the placeholder when transcription failed).
func (s *ChatService) SendVoiceMessage(ctx context.Context, userID, chatID uint, audioPath string, templateID uint) (*domain.Message, string, error) {
	tr := s.transcriber.Transcribe(ctx, audioPath)

	text := tr.Transcription
	if !tr.Success {
		s.logger.Warn("voice transcription failed", "chat_id", chatID, "error", tr.Err)
		text = voicePlaceholder
	}

	reply, err := s.SendMessage(ctx, userID, chatID, text, "", templateID)
	return reply, text, err
}

// StreamResponse streams a reply for the given message, persisting both
// sides once the stream completes (or fails into fallback copy).
func (s *ChatService) StreamResponse(ctx context.Context, userID, chatID uint, text, imagePath string, onDelta func(string) error) (ai.GenerationResult, error) {
	if err := s.authorize(ctx, userID, chatID); err != nil {
		return ai.GenerationResult{}, err
	}

	if _, err := s.messageRepo.Create(ctx, &domain.Message{
		ChatID:    chatID,
		Role:      domain.RoleUser,
		Content:   text,
		ImagePath: imagePath,
	}); err != nil {
		return ai.GenerationResult{}, err
	}

	result := s.gateway.StreamText(ctx, text, imagePath, onDelta)

	if _, err := s.messageRepo.Create(ctx, &domain.Message{
		ChatID:  chatID,
		Role:    domain.RoleAssistant,
		Content: result.Content,
		Model:   result.Model,
	}); err != nil {
		s.logger.Error("saving streamed reply failed", "chat_id", chatID, "error", err)
	}
	if err := s.chatRepo.TouchUpdatedAt(ctx, chatID); err != nil {
		s.logger.Warn("touching chat failed", "chat_id", chatID, "error", err)
	}
	return result, nil
}

func (s *ChatService) authorize(ctx context.Context, userID, chatID uint) error {
	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil || chat.UserID != userID {
		return ErrUnauthorized
	}
	return nil
}

// loadTemplate resolves the optional prompt template and bumps its usage
// counter. A missing or foreign template degrades to no template rather than
// failing the message.
func (s *ChatService) loadTemplate(ctx context.Context, userID, templateID uint) string {
	if templateID == 0 {
		return ""
	}
	tmpl, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil || tmpl.UserID != userID {
		s.logger.Warn("template lookup failed", "template_id", templateID, "error", err)
		return ""
	}
	if err := s.templateRepo.IncrementUsage(ctx, templateID); err != nil {
		s.logger.Warn("template usage bump failed", "template_id", templateID, "error", err)
	}
	return tmpl.Template
}
