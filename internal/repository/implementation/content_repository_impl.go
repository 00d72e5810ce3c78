package implementation

import (
	"context"
	"errors"

	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/mapper"
	"ai-digest-be/internal/model"
	"ai-digest-be/internal/repository/contract"
	"ai-digest-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentItemMapper
}

func NewContentRepository(db *gorm.DB) contract.ContentRepository {
	return &ContentRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentItemMapper(),
	}
}

func tableFor(pool entity.Pool) string {
	if pool == entity.PoolPrivate {
		return model.PrivateContentItem{}.TableName()
	}
	return model.ContentItem{}.TableName()
}

func (r *ContentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Upsert inserts the item or, when its URL already exists, refreshes the
// summarized fields. Keying on URL keeps retries from creating duplicate rows.
func (r *ContentRepositoryImpl) Upsert(ctx context.Context, pool entity.Pool, item *entity.ContentItem) error {
	m := r.mapper.ToModel(item)
	err := r.db.WithContext(ctx).
		Table(tableFor(pool)).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "url"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "summary", "transcript", "insights", "content_type", "platform", "updated_at",
			}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *ContentRepositoryImpl) Delete(ctx context.Context, pool entity.Pool, id int64) error {
	return r.db.WithContext(ctx).
		Table(tableFor(pool)).
		Where("id = ?", id).
		Delete(&model.ContentItem{}).Error
}

func (r *ContentRepositoryImpl) UpdateEmbedding(ctx context.Context, pool entity.Pool, id int64, embedding []float32) error {
	return r.db.WithContext(ctx).
		Table(tableFor(pool)).
		Where("id = ?", id).
		Update("embedding", pgvector.NewVector(embedding)).Error
}

func (r *ContentRepositoryImpl) FindOne(ctx context.Context, pool entity.Pool, specs ...specification.Specification) (*entity.ContentItem, error) {
	var m model.ContentItem
	query := r.applySpecifications(r.db.WithContext(ctx).Table(tableFor(pool)), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ContentRepositoryImpl) FindAll(ctx context.Context, pool entity.Pool, specs ...specification.Specification) ([]*entity.ContentItem, error) {
	var models []*model.ContentItem
	query := r.applySpecifications(r.db.WithContext(ctx).Table(tableFor(pool)), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchSimilarWithScore returns items with similarity scores above threshold.
// Cosine distance in pgvector is 1 - cosine_similarity, so the select computes
// 1 - (embedding <=> query_vector). Rows without an embedding are excluded.
func (r *ContentRepositoryImpl) SearchSimilarWithScore(ctx context.Context, pool entity.Pool, embedding []float32, limit int, threshold float64) ([]*contract.ScoredContentItem, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.ContentItem
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)
	tbl := tableFor(pool)

	err := r.db.WithContext(ctx).
		Table(tbl).
		Select(tbl+".*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("embedding IS NOT NULL").
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredContentItem, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredContentItem{
			Item:       r.mapper.ToEntity(&res.ContentItem),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
