package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ContentItem struct {
	Id          int64            `gorm:"primaryKey;autoIncrement"`
	Title       string           `gorm:"type:varchar(512);not null"`
	URL         string           `gorm:"type:text;not null;uniqueIndex"`
	Summary     string           `gorm:"type:text"`
	Transcript  string           `gorm:"type:text"`
	Insights    datatypes.JSON   `gorm:"type:jsonb"`
	ContentType string           `gorm:"type:varchar(32);index"`
	Platform    string           `gorm:"type:varchar(64)"`
	Embedding   *pgvector.Vector `gorm:"type:vector(1536)"` // text-embedding-3-small default width
	CreatedAt   time.Time        `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime"`
}

func (ContentItem) TableName() string {
	return "content_items"
}

// PrivateContentItem shares the schema of ContentItem but lives in its own
// table. The two pools are always queried independently.
type PrivateContentItem struct {
	ContentItem
}

func (PrivateContentItem) TableName() string {
	return "private_content_items"
}
