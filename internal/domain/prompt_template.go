// File: internal/domain/prompt_template.go
package domain

import "time"

// PromptTemplate is a reusable instruction text. The body may contain a
// placeholder token ({user_prompt} or {prompt}) that the composer substitutes
// with the user's message; without a token the user text is appended instead.
type PromptTemplate struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Name       string    `json:"name" gorm:"not null"`
	Template   string    `json:"template" gorm:"not null"`
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
