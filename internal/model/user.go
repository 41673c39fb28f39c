package model

import "time"

// User is a survey owner. TelegramID links an external chat identity;
// LinkCode is a single-use token consumed when the link is made.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Name           string    `json:"name,omitempty"`
	TelegramID     string    `json:"telegram_id,omitempty"`
	LinkCode       string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
