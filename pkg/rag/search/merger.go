package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/pkg/apperror"
	"ai-digest-be/internal/pkg/logger"
	"ai-digest-be/internal/repository/specification"
	"ai-digest-be/internal/repository/unitofwork"
	"ai-digest-be/pkg/embedding"
)

const (
	// KeywordDefaultScore is assigned to keyword-only hits. It is a deliberate
	// tie-break constant, not a relevance measure: keyword hits rank below
	// strong semantic hits but above weak ones. Changing it changes observable
	// ranking order.
	KeywordDefaultScore = 0.5

	// DefaultThreshold is the minimum cosine similarity for semantic hits.
	DefaultThreshold = 0.3

	defaultLimit = 10

	SourceSemantic = "semantic"
	SourceKeyword  = "keyword"
)

// Result is an ephemeral, per-query view of a content item: the item plus its
// similarity score, provenance, and pool of origin.
type Result struct {
	Item       *entity.ContentItem
	Pool       entity.Pool
	Source     string
	Similarity float64
}

// Filters are applied as a post-filter on the merged, ranked list rather than
// pushed into the similarity query. They can reduce the returned count below
// the requested limit even when more matches exist.
type Filters struct {
	ContentType string
	Platform    string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// Params bound one merge operation.
type Params struct {
	Query      string
	Mode       Mode
	Limit      int
	Threshold  float64
	ContentIds []int64 // optional restriction to specific items (per pool id space)
	Filters    *Filters
}

// Executor is the merge contract consumed by services; Merger is the single
// implementation outside of tests.
type Executor interface {
	Execute(ctx context.Context, uow unitofwork.UnitOfWork, params Params) ([]Result, error)
}

// Merger fans a query out to the semantic and keyword legs of both content
// pools, de-duplicates, and combines scores into one ranked list.
type Merger struct {
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewMerger(embeddingProvider embedding.EmbeddingProvider, log logger.ILogger) *Merger {
	return &Merger{
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

type mergeKey struct {
	pool entity.Pool
	id   int64
}

func (m *Merger) Execute(ctx context.Context, uow unitofwork.UnitOfWork, params Params) ([]Result, error) {
	if params.Limit <= 0 {
		params.Limit = defaultLimit
	}
	if params.Threshold <= 0 {
		params.Threshold = DefaultThreshold
	}

	// Blank query: skip search entirely and browse the most recent items.
	if strings.TrimSpace(params.Query) == "" {
		return m.browseRecent(ctx, uow, params)
	}

	merged := make([]Result, 0, 2*params.Limit)
	seen := make(map[mergeKey]bool)

	if params.Mode.includesSemantic() {
		semantic, err := m.semanticCandidates(ctx, uow, params)
		if err != nil {
			return nil, err
		}
		for _, r := range semantic {
			key := mergeKey{pool: r.Pool, id: r.Item.Id}
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, r)
		}
	}

	if params.Mode.includesKeyword() {
		keyword, err := m.keywordCandidates(ctx, uow, params)
		if err != nil {
			return nil, err
		}
		// Keyword hits only fill gaps; a semantic hit for the same item keeps
		// its true similarity.
		for _, r := range keyword {
			key := mergeKey{pool: r.Pool, id: r.Item.Id}
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, r)
		}
	}

	sortByScore(merged)
	merged = applyPostFilters(merged, params)

	if len(merged) > params.Limit {
		merged = merged[:params.Limit]
	}

	m.logger.Debug("search", "hybrid merge completed", map[string]interface{}{
		"query_len": len(params.Query),
		"mode":      string(params.Mode),
		"results":   len(merged),
	})

	return merged, nil
}

// browseRecent returns the most recent items across both pools, ordered by
// creation time descending. This is a browse fallback, not a search: no
// similarity scores are attached.
func (m *Merger) browseRecent(ctx context.Context, uow unitofwork.UnitOfWork, params Params) ([]Result, error) {
	repo := uow.ContentRepository()

	perPool, err := forBothPools(func(pool entity.Pool) ([]Result, error) {
		items, err := repo.FindAll(ctx, pool,
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Pagination{Limit: params.Limit},
		)
		if err != nil {
			return nil, err
		}
		results := make([]Result, 0, len(items))
		for _, item := range items {
			results = append(results, Result{Item: item, Pool: pool})
		}
		return results, nil
	})
	if err != nil {
		return nil, &apperror.SearchError{Err: err}
	}

	merged := append(perPool[0], perPool[1]...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Item.CreatedAt.After(merged[j].Item.CreatedAt)
	})

	merged = applyPostFilters(merged, params)
	if len(merged) > params.Limit {
		merged = merged[:params.Limit]
	}
	return merged, nil
}

// semanticCandidates embeds the query once and runs the vector lookup against
// both pools concurrently, bounded to 2x the requested limit per pool.
func (m *Merger) semanticCandidates(ctx context.Context, uow unitofwork.UnitOfWork, params Params) ([]Result, error) {
	vector, err := m.embeddingProvider.Generate(ctx, params.Query)
	if err != nil {
		return nil, err
	}

	repo := uow.ContentRepository()
	candidateLimit := 2 * params.Limit

	perPool, err := forBothPools(func(pool entity.Pool) ([]Result, error) {
		scored, err := repo.SearchSimilarWithScore(ctx, pool, vector, candidateLimit, params.Threshold)
		if err != nil {
			return nil, err
		}
		results := make([]Result, 0, len(scored))
		for _, s := range scored {
			results = append(results, Result{
				Item:       s.Item,
				Pool:       pool,
				Source:     SourceSemantic,
				Similarity: s.Similarity,
			})
		}
		return results, nil
	})
	if err != nil {
		return nil, &apperror.SearchError{Err: err}
	}

	return append(perPool[0], perPool[1]...), nil
}

// keywordCandidates runs the substring match against both pools concurrently,
// ordered by recency. Keyword-only mode is bounded to the requested limit,
// hybrid to 2x so keyword hits can backfill beyond the semantic set.
func (m *Merger) keywordCandidates(ctx context.Context, uow unitofwork.UnitOfWork, params Params) ([]Result, error) {
	repo := uow.ContentRepository()

	candidateLimit := 2 * params.Limit
	if params.Mode == ModeKeyword {
		candidateLimit = params.Limit
	}

	perPool, err := forBothPools(func(pool entity.Pool) ([]Result, error) {
		items, err := repo.FindAll(ctx, pool,
			specification.ContentQuery{Query: params.Query},
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Pagination{Limit: candidateLimit},
		)
		if err != nil {
			return nil, err
		}
		results := make([]Result, 0, len(items))
		for _, item := range items {
			results = append(results, Result{
				Item:       item,
				Pool:       pool,
				Source:     SourceKeyword,
				Similarity: KeywordDefaultScore,
			})
		}
		return results, nil
	})
	if err != nil {
		return nil, &apperror.SearchError{Err: err}
	}

	return append(perPool[0], perPool[1]...), nil
}

func sortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Item.CreatedAt.After(results[j].Item.CreatedAt)
	})
}

func applyPostFilters(results []Result, params Params) []Result {
	if params.Filters == nil && len(params.ContentIds) == 0 {
		return results
	}

	var allowedIds map[int64]bool
	if len(params.ContentIds) > 0 {
		allowedIds = make(map[int64]bool, len(params.ContentIds))
		for _, id := range params.ContentIds {
			allowedIds[id] = true
		}
	}

	filtered := results[:0]
	for _, r := range results {
		if allowedIds != nil && !allowedIds[r.Item.Id] {
			continue
		}
		if f := params.Filters; f != nil {
			if f.ContentType != "" && r.Item.ContentType != f.ContentType {
				continue
			}
			if f.Platform != "" && r.Item.Platform != f.Platform {
				continue
			}
			if f.DateFrom != nil && r.Item.CreatedAt.Before(*f.DateFrom) {
				continue
			}
			if f.DateTo != nil && r.Item.CreatedAt.After(*f.DateTo) {
				continue
			}
		}
		filtered = append(filtered, r)
	}
	return filtered
}
