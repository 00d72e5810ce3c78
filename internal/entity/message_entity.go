package entity

import "time"

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"
)

// Message is one turn in a conversation. Immutable once written; ordering
// within a conversation is by CreatedAt ascending.
type Message struct {
	Id             int64
	ConversationId int64
	Role           string
	Content        string
	CreatedAt      time.Time
}

// MessageSource is a citation attached to an assistant message, pointing back
// to the content item that informed the answer. Title and URL are denormalized
// so links render without re-joining the content pools.
type MessageSource struct {
	Id         int64
	MessageId  int64
	ContentId  int64
	Pool       Pool
	Title      string
	URL        string
	Similarity float64
	CreatedAt  time.Time
}
