package specification

import (
	"time"

	"gorm.io/gorm"
)

// ContentQuery is the keyword leg of hybrid search: a case-insensitive
// substring match over title, summary, and transcript. Match/no-match only,
// no relevance scoring.
type ContentQuery struct {
	Query string
}

func (s ContentQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("title ILIKE ? OR summary ILIKE ? OR transcript ILIKE ?", pattern, pattern, pattern)
}

// ByContentType filters by content type ("article", "podcast", "video")
type ByContentType struct {
	ContentType string
}

func (s ByContentType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content_type = ?", s.ContentType)
}

// ByPlatform filters by source platform
type ByPlatform struct {
	Platform string
}

func (s ByPlatform) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("platform = ?", s.Platform)
}

// CreatedBetween bounds results by creation time; either side may be nil
type CreatedBetween struct {
	From *time.Time
	To   *time.Time
}

func (s CreatedBetween) Apply(db *gorm.DB) *gorm.DB {
	if s.From != nil {
		db = db.Where("created_at >= ?", *s.From)
	}
	if s.To != nil {
		db = db.Where("created_at <= ?", *s.To)
	}
	return db
}
