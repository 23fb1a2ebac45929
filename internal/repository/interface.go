// File: internal/repository/interface.go
package repository

import (
	"context"

	"github.com/iyunix/go-chatpal/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	FindByID(ctx context.Context, id uint) (*domain.Chat, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Chat, error)
	TouchUpdatedAt(ctx context.Context, chatID uint) error
	Delete(ctx context.Context, chatID, userID uint) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error)
	// FindRecent returns up to limit messages for the chat, newest first.
	FindRecent(ctx context.Context, chatID uint, limit int) ([]domain.Message, error)
}

type TemplateRepository interface {
	Create(ctx context.Context, tmpl *domain.PromptTemplate) (*domain.PromptTemplate, error)
	FindByID(ctx context.Context, id uint) (*domain.PromptTemplate, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.PromptTemplate, error)
	IncrementUsage(ctx context.Context, id uint) error
	Delete(ctx context.Context, id, userID uint) error
}
