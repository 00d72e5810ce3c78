package dto

import "time"

type InsightDTO struct {
	Text      string `json:"text" validate:"required"`
	Timestamp string `json:"timestamp,omitempty"`
}

// CreateContentRequest is the boundary for already-summarized items produced
// by the out-of-scope ingestion pipeline. Items are upserted by URL so a
// retried delivery never creates a duplicate row.
type CreateContentRequest struct {
	Title       string       `json:"title" validate:"required"`
	URL         string       `json:"url" validate:"required,url"`
	Summary     string       `json:"summary" validate:"required"`
	Transcript  string       `json:"transcript,omitempty"`
	Insights    []InsightDTO `json:"insights,omitempty" validate:"max=20,dive"`
	ContentType string       `json:"contentType" validate:"required,oneof=article podcast video"`
	Platform    string       `json:"platform,omitempty"`
	Pool        string       `json:"pool,omitempty" validate:"omitempty,oneof=public private"`
}

type CreateContentResponse struct {
	Id        int64     `json:"id"`
	Pool      string    `json:"pool"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublishEmbedContentMessage is the embed-worker event payload.
type PublishEmbedContentMessage struct {
	ContentId int64  `json:"content_id"`
	Pool      string `json:"pool"`
}
