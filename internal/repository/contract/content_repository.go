package contract

import (
	"context"

	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/repository/specification"
)

// ScoredContentItem pairs a content item with the cosine similarity of its
// embedding against a query vector.
type ScoredContentItem struct {
	Item       *entity.ContentItem
	Similarity float64
}

// ContentRepository reads and writes one content pool at a time. The pool is
// passed per call because public and private items share a schema but live in
// parallel tables.
type ContentRepository interface {
	Upsert(ctx context.Context, pool entity.Pool, item *entity.ContentItem) error
	Delete(ctx context.Context, pool entity.Pool, id int64) error
	UpdateEmbedding(ctx context.Context, pool entity.Pool, id int64, embedding []float32) error

	FindOne(ctx context.Context, pool entity.Pool, specs ...specification.Specification) (*entity.ContentItem, error)
	FindAll(ctx context.Context, pool entity.Pool, specs ...specification.Specification) ([]*entity.ContentItem, error)

	// SearchSimilarWithScore returns items whose embedding cosine similarity to
	// the query vector meets the threshold, best first. Items without an
	// embedding never appear here.
	SearchSimilarWithScore(ctx context.Context, pool entity.Pool, embedding []float32, limit int, threshold float64) ([]*ScoredContentItem, error)
}
