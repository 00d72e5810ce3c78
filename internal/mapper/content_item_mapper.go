package mapper

import (
	"encoding/json"
	"time"

	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ContentItemMapper struct{}

func NewContentItemMapper() *ContentItemMapper {
	return &ContentItemMapper{}
}

func (m *ContentItemMapper) ToEntity(c *model.ContentItem) *entity.ContentItem {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	var insights []entity.InsightSnippet
	if len(c.Insights) > 0 {
		// Malformed rows degrade to no insights rather than failing the read.
		_ = json.Unmarshal(c.Insights, &insights)
	}

	var embeddingValues []float32
	if c.Embedding != nil {
		embeddingValues = c.Embedding.Slice()
	}

	return &entity.ContentItem{
		Id:          c.Id,
		Title:       c.Title,
		URL:         c.URL,
		Summary:     c.Summary,
		Transcript:  c.Transcript,
		Insights:    insights,
		ContentType: c.ContentType,
		Platform:    c.Platform,
		Embedding:   embeddingValues,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ContentItemMapper) ToModel(c *entity.ContentItem) *model.ContentItem {
	if c == nil {
		return nil
	}

	var insights datatypes.JSON
	if len(c.Insights) > 0 {
		if raw, err := json.Marshal(c.Insights); err == nil {
			insights = raw
		}
	}

	var embedding *pgvector.Vector
	if len(c.Embedding) > 0 {
		v := pgvector.NewVector(c.Embedding)
		embedding = &v
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.ContentItem{
		Id:          c.Id,
		Title:       c.Title,
		URL:         c.URL,
		Summary:     c.Summary,
		Transcript:  c.Transcript,
		Insights:    insights,
		ContentType: c.ContentType,
		Platform:    c.Platform,
		Embedding:   embedding,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ContentItemMapper) ToEntities(items []*model.ContentItem) []*entity.ContentItem {
	entities := make([]*entity.ContentItem, len(items))
	for i, c := range items {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
