package unitofwork

import (
	"context"

	"ai-digest-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ContentRepository() contract.ContentRepository
	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
}
