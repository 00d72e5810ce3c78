package entity

import "time"

// Conversation is an ordered sequence of messages. It is created on the first
// user message, never empty; UpdatedAt is refreshed whenever a message is
// appended.
type Conversation struct {
	Id        int64
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
