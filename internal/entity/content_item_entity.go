package entity

import "time"

// Pool identifies which content table an item lives in. Public and private
// items are stored in parallel tables and queried independently; search
// results carry their pool of origin so downstream links resolve correctly.
type Pool string

const (
	PoolPublic  Pool = "public"
	PoolPrivate Pool = "private"
)

// InsightSnippet is a short structured takeaway extracted at summarization
// time, optionally anchored to a timestamp in the source media.
type InsightSnippet struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ContentItem is a single summarized unit: article, transcript, or post.
// An item with a non-nil Embedding is eligible for semantic search; one
// without only participates in keyword search.
type ContentItem struct {
	Id          int64
	Title       string
	URL         string
	Summary     string
	Transcript  string
	Insights    []InsightSnippet
	ContentType string
	Platform    string
	Embedding   []float32
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
