package embedding

import "context"

// EmbeddingProvider maps text to a fixed-length vector. The same model and
// dimensions must be used for query-time and content-time embeddings or
// similarity comparisons become meaningless.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
