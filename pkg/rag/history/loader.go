package history

import (
	"context"

	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/repository/specification"
	"ai-digest-be/internal/repository/unitofwork"
	"ai-digest-be/pkg/llm"
)

// turnLimit bounds how much prior conversation is replayed into the prompt.
const turnLimit = 10

// Loader fetches recent conversation history for LLM context.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{
		uowFactory: uowFactory,
	}
}

// LoadConversationHistory returns up to the last turnLimit messages of the
// conversation in creation order, oldest first. Messages from other
// conversations never appear.
func (l *Loader) LoadConversationHistory(ctx context.Context, conversationId int64) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	// Newest first so the limit keeps the most recent turns, then reversed.
	stored, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: turnLimit},
	)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		msg := stored[i]

		role := entity.MessageRoleUser
		if msg.Role == entity.MessageRoleAssistant {
			role = entity.MessageRoleAssistant
		}
		messages = append(messages, llm.Message{
			Role:    role,
			Content: msg.Content,
		})
	}

	return messages, nil
}
