package model

import "time"

type Message struct {
	Id             int64     `gorm:"primaryKey;autoIncrement"`
	ConversationId int64     `gorm:"not null;index"`
	Role           string    `gorm:"type:varchar(16);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
}

func (Message) TableName() string {
	return "messages"
}

type MessageSource struct {
	Id         int64     `gorm:"primaryKey;autoIncrement"`
	MessageId  int64     `gorm:"not null;index"`
	ContentId  int64     `gorm:"not null;index"`
	Pool       string    `gorm:"type:varchar(16);not null;default:'public'"`
	Title      string    `gorm:"type:varchar(512)"`
	URL        string    `gorm:"type:text"`
	Similarity float64   `gorm:"type:double precision"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (MessageSource) TableName() string {
	return "message_sources"
}
