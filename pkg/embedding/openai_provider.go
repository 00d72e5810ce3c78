package embedding

import (
	"context"
	"fmt"
	"time"

	"ai-digest-be/internal/pkg/apperror"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider generates embeddings through the OpenAI embeddings API. The
// client is built once and is safe for concurrent use; repeated queries are
// memoized so the same search text within the TTL costs one API call.
type OpenAIProvider struct {
	client     *openai.Client
	model      string
	dimensions int
	cache      *gocache.Cache
}

func NewOpenAIProvider(apiKey, model string, dimensions int) (EmbeddingProvider, error) {
	if apiKey == "" {
		return nil, &apperror.ConfigurationError{Setting: "OPENAI_API_KEY"}
	}

	return &OpenAIProvider{
		client:     openai.NewClient(apiKey),
		model:      model,
		dimensions: dimensions,
		cache:      gocache.New(5*time.Minute, 10*time.Minute),
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, &apperror.ValidationError{Field: "text", Message: "must not be empty"}
	}

	if cached, found := p.cache.Get(text); found {
		return cached.([]float32), nil
	}

	// Single attempt per call; no retry or backoff.
	rsp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(p.model),
		Dimensions: p.dimensions,
	})
	if err != nil {
		return nil, &apperror.UpstreamError{Provider: "openai-embeddings", Err: err}
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, &apperror.UpstreamError{
			Provider: "openai-embeddings",
			Err:      fmt.Errorf("empty embedding response"),
		}
	}

	vector := rsp.Data[0].Embedding
	p.cache.Set(text, vector, gocache.DefaultExpiration)

	return vector, nil
}
