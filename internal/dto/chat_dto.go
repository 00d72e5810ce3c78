package dto

import "time"

type ChatRequest struct {
	Message        string  `json:"message" validate:"required"`
	ConversationId int64   `json:"conversationId,omitempty"`
	ArticleIds     []int64 `json:"articleIds,omitempty" validate:"max=20"`
}

// SourceDTO is one citation attached to an assistant reply.
type SourceDTO struct {
	Id         int64   `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url,omitempty"`
	Pool       string  `json:"pool"`
	Similarity float64 `json:"similarity"`
}

// Chat stream event types. Content chunks are forwarded as they arrive; the
// stream always ends with done or error, with warning possibly in between.
const (
	ChatEventContent = "content"
	ChatEventDone    = "done"
	ChatEventError   = "error"
	ChatEventWarning = "warning"
)

type ChatEvent struct {
	Type           string      `json:"type"`
	Content        string      `json:"content,omitempty"`
	ConversationId int64       `json:"conversationId,omitempty"`
	Sources        []SourceDTO `json:"sources,omitempty"`
	Error          string      `json:"error,omitempty"`
	Warning        string      `json:"warning,omitempty"`
}

type ConversationResponse struct {
	Id        int64      `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type MessageResponse struct {
	Id        int64       `json:"id"`
	Role      string      `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	Sources   []SourceDTO `json:"sources,omitempty"`
}
