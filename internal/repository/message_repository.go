// File: internal/repository/message_repository.go
package repository

import (
	"context"

	"github.com/iyunix/go-chatpal/internal/domain"
	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (r *messageRepository) FindByChatID(ctx context.Context, chatID uint) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

// FindRecent returns the last messages of the chat, newest first. The prompt
// composer reverses them back into chronological order.
func (r *messageRepository) FindRecent(ctx context.Context, chatID uint, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).
		Order("created_at DESC").Limit(limit).Find(&messages).Error
	return messages, err
}
