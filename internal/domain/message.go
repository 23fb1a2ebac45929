// File: internal/domain/message.go
package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message within a chat.
type Message struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ChatID    uint      `json:"chat_id" gorm:"not null;index"`
	Role      string    `json:"role" gorm:"not null"` // "user" or "assistant"
	Content   string    `json:"content" gorm:"not null"`
	ImagePath string    `json:"image_path,omitempty"` // upload path when the user attached an image
	Model     string    `json:"model,omitempty"`      // provider model that produced an assistant message, or "fallback"
	CreatedAt time.Time `json:"created_at"`
}

// IsUserMessage reports whether the message was authored by the end user.
func (m *Message) IsUserMessage() bool {
	return m.Role == RoleUser
}
