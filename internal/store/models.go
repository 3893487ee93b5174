package store

import "time"

// WelcomeSentinel marks the seeded greeting row in chat_history. Rows with
// this message carry no user turn and render as a bot-only greeting.
const WelcomeSentinel = "__welcome__"

type User struct {
	ID             int64     `json:"id"`
	ExternalUserID string    `json:"external_user_id"`
	PasswordHash   string    `json:"-"` // Do not expose this in JSON responses
	CreatedAt      time.Time `json:"created_at"`
}

// ChatHistoryRecord is one stored exchange: the user's message and the
// answer the bot returned for it.
type ChatHistoryRecord struct {
	ID        string    `json:"id"` // Using UUID for external ID
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}
