package contract

import (
	"context"

	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/repository/specification"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	DeleteByConversationId(ctx context.Context, conversationId int64) error

	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)

	CreateSources(ctx context.Context, sources []*entity.MessageSource) error
	FindSourcesByMessageIds(ctx context.Context, messageIds []int64) ([]*entity.MessageSource, error)
	DeleteSourcesByConversationId(ctx context.Context, conversationId int64) error
}
