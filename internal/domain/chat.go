// File: internal/domain/chat.go
package domain

import "time"

// Chat represents a single conversation thread.
type Chat struct {
	ID        uint   `json:"id" gorm:"primarykey"`
	UserID    uint   `json:"user_id" gorm:"not null;index"` // The ID of the user who owns the chat
	Title     string `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
