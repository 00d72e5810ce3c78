package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-digest-be/internal/dto"
	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/pkg/apperror"
	"ai-digest-be/internal/repository/contract"
	"ai-digest-be/internal/repository/specification"
	"ai-digest-be/internal/repository/unitofwork"
	"ai-digest-be/pkg/llm"
	"ai-digest-be/pkg/rag/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeMerger struct {
	results    []search.Result
	err        error
	lastParams search.Params
}

func (f *fakeMerger) Execute(ctx context.Context, uow unitofwork.UnitOfWork, params search.Params) ([]search.Result, error) {
	f.lastParams = params
	return f.results, f.err
}

type fakeLLM struct {
	deltas      []string
	err         error
	gotMessages []llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (string, error) {
	f.gotMessages = messages
	reply := ""
	for _, d := range f.deltas {
		reply += d
	}
	return reply, f.err
}

func (f *fakeLLM) ChatStream(ctx context.Context, messages []llm.Message, onDelta llm.StreamHandler, opts ...llm.Option) (string, error) {
	f.gotMessages = messages
	if f.err != nil {
		return "", f.err
	}
	reply := ""
	for _, d := range f.deltas {
		if err := onDelta(d); err != nil {
			return reply, err
		}
		reply += d
	}
	return reply, nil
}

// memConversationRepo and memMessageRepo back the persistence assertions.

type memConversationRepo struct {
	nextId        int64
	conversations map[int64]*entity.Conversation
	createErr     error
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{nextId: 1, conversations: map[int64]*entity.Conversation{}}
}

func (r *memConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	if r.createErr != nil {
		return r.createErr
	}
	c.Id = r.nextId
	r.nextId++
	r.conversations[c.Id] = c
	return nil
}

func (r *memConversationRepo) Touch(ctx context.Context, id int64, at time.Time) error {
	if c, ok := r.conversations[id]; ok {
		c.UpdatedAt = &at
	}
	return nil
}

func (r *memConversationRepo) Delete(ctx context.Context, id int64) error {
	delete(r.conversations, id)
	return nil
}

func (r *memConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	for _, s := range specs {
		if byId, ok := s.(specification.ByID); ok {
			return r.conversations[byId.ID], nil
		}
	}
	return nil, nil
}

func (r *memConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	out := make([]*entity.Conversation, 0, len(r.conversations))
	for _, c := range r.conversations {
		out = append(out, c)
	}
	return out, nil
}

type memMessageRepo struct {
	nextId   int64
	messages []*entity.Message
	sources  []*entity.MessageSource
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{nextId: 1}
}

func (r *memMessageRepo) Create(ctx context.Context, m *entity.Message) error {
	m.Id = r.nextId
	r.nextId++
	r.messages = append(r.messages, m)
	return nil
}

func (r *memMessageRepo) DeleteByConversationId(ctx context.Context, conversationId int64) error {
	kept := r.messages[:0]
	for _, m := range r.messages {
		if m.ConversationId != conversationId {
			kept = append(kept, m)
		}
	}
	r.messages = kept
	return nil
}

func (r *memMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var conversationId int64
	desc := false
	limit := 0
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByConversationID:
			conversationId = spec.ConversationID
		case specification.OrderBy:
			desc = spec.Desc
		case specification.Pagination:
			limit = spec.Limit
		}
	}
	var out []*entity.Message
	for _, m := range r.messages {
		if m.ConversationId == conversationId {
			out = append(out, m)
		}
	}
	// Messages are stored in creation order; reverse for descending queries.
	if desc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMessageRepo) CreateSources(ctx context.Context, sources []*entity.MessageSource) error {
	r.sources = append(r.sources, sources...)
	return nil
}

func (r *memMessageRepo) FindSourcesByMessageIds(ctx context.Context, messageIds []int64) ([]*entity.MessageSource, error) {
	wanted := map[int64]bool{}
	for _, id := range messageIds {
		wanted[id] = true
	}
	var out []*entity.MessageSource
	for _, s := range r.sources {
		if wanted[s.MessageId] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memMessageRepo) DeleteSourcesByConversationId(ctx context.Context, conversationId int64) error {
	return nil
}

type memUow struct {
	conversations *memConversationRepo
	messages      *memMessageRepo
	beginErr      error
}

func (u *memUow) Begin(ctx context.Context) error { return u.beginErr }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) ContentRepository() contract.ContentRepository { return nil }
func (u *memUow) ConversationRepository() contract.ConversationRepository {
	return u.conversations
}
func (u *memUow) MessageRepository() contract.MessageRepository { return u.messages }

type memUowFactory struct {
	uow *memUow
}

func (f *memUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// --- helpers ---

func mergedResults(n int) []search.Result {
	results := make([]search.Result, 0, n)
	for i := 1; i <= n; i++ {
		results = append(results, search.Result{
			Item: &entity.ContentItem{
				Id:      int64(i),
				Title:   "Item",
				URL:     "https://example.com/item",
				Summary: "summary",
			},
			Pool:       entity.PoolPublic,
			Source:     search.SourceSemantic,
			Similarity: 1.0 - float64(i)*0.05,
		})
	}
	return results
}

func newTestChatService(merger *fakeMerger, provider llm.LLMProvider, factory unitofwork.RepositoryFactory) IChatService {
	return NewChatService(factory, merger, provider, nopLogger{}, 0.3, 0.7, 1024)
}

func collectEvents() (*[]dto.ChatEvent, ChatEmitter) {
	events := &[]dto.ChatEvent{}
	return events, func(e *dto.ChatEvent) error {
		*events = append(*events, *e)
		return nil
	}
}

// --- tests ---

func TestStreamChatHappyPath(t *testing.T) {
	merger := &fakeMerger{results: mergedResults(3)}
	provider := &fakeLLM{deltas: []string{"Hello", " world"}}
	factory := &memUowFactory{uow: &memUow{
		conversations: newMemConversationRepo(),
		messages:      newMemMessageRepo(),
	}}
	svc := newTestChatService(merger, provider, factory)

	events, emit := collectEvents()
	err := svc.StreamChat(context.Background(), &dto.ChatRequest{Message: "what did I save about rag?"}, emit)
	require.NoError(t, err)

	require.Len(t, *events, 3)
	assert.Equal(t, dto.ChatEventContent, (*events)[0].Type)
	assert.Equal(t, "Hello", (*events)[0].Content)
	assert.Equal(t, " world", (*events)[1].Content)

	done := (*events)[2]
	assert.Equal(t, dto.ChatEventDone, done.Type)
	assert.NotZero(t, done.ConversationId, "done event should carry the new conversation id")
	assert.Len(t, done.Sources, 3)

	// Both turns persisted, assistant message carries the citations.
	messages := factory.uow.messages.messages
	require.Len(t, messages, 2)
	assert.Equal(t, entity.MessageRoleUser, messages[0].Role)
	assert.Equal(t, entity.MessageRoleAssistant, messages[1].Role)
	assert.Equal(t, "Hello world", messages[1].Content)
	require.Len(t, factory.uow.messages.sources, 3)
	assert.Equal(t, messages[1].Id, factory.uow.messages.sources[0].MessageId)
}

func TestStreamChatContextBoundedToFive(t *testing.T) {
	merger := &fakeMerger{results: mergedResults(10)}
	provider := &fakeLLM{deltas: []string{"ok"}}
	factory := &memUowFactory{uow: &memUow{
		conversations: newMemConversationRepo(),
		messages:      newMemMessageRepo(),
	}}
	svc := newTestChatService(merger, provider, factory)

	events, emit := collectEvents()
	err := svc.StreamChat(context.Background(), &dto.ChatRequest{Message: "summarize everything"}, emit)
	require.NoError(t, err)

	assert.Equal(t, search.ModeHybrid, merger.lastParams.Mode)
	assert.Equal(t, 10, merger.lastParams.Limit)

	done := (*events)[len(*events)-1]
	require.Equal(t, dto.ChatEventDone, done.Type)
	assert.Len(t, done.Sources, 5, "context and citations are capped at the top 5 results")
	assert.Len(t, factory.uow.messages.sources, 5)
}

func TestStreamChatEmptyMessageRejected(t *testing.T) {
	svc := newTestChatService(&fakeMerger{}, &fakeLLM{}, &memUowFactory{uow: &memUow{
		conversations: newMemConversationRepo(),
		messages:      newMemMessageRepo(),
	}})

	events, emit := collectEvents()
	err := svc.StreamChat(context.Background(), &dto.ChatRequest{Message: "   "}, emit)

	var validationErr *apperror.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, *events, 1)
	assert.Equal(t, dto.ChatEventError, (*events)[0].Type)
}

func TestStreamChatSearchFailureAbortsBeforeStreaming(t *testing.T) {
	merger := &fakeMerger{err: &apperror.SearchError{Err: errors.New("db down")}}
	provider := &fakeLLM{deltas: []string{"never"}}
	svc := newTestChatService(merger, provider, &memUowFactory{uow: &memUow{
		conversations: newMemConversationRepo(),
		messages:      newMemMessageRepo(),
	}})

	events, emit := collectEvents()
	err := svc.StreamChat(context.Background(), &dto.ChatRequest{Message: "q"}, emit)

	require.Error(t, err)
	require.Len(t, *events, 1)
	assert.Equal(t, dto.ChatEventError, (*events)[0].Type)
	assert.Nil(t, provider.gotMessages, "LLM must not be called when context building fails")
}

func TestStreamChatUpstreamFailureEmitsError(t *testing.T) {
	merger := &fakeMerger{results: mergedResults(1)}
	provider := &fakeLLM{err: &apperror.UpstreamError{Provider: "openai", Err: errors.New("429")}}
	svc := newTestChatService(merger, provider, &memUowFactory{uow: &memUow{
		conversations: newMemConversationRepo(),
		messages:      newMemMessageRepo(),
	}})

	events, emit := collectEvents()
	err := svc.StreamChat(context.Background(), &dto.ChatRequest{Message: "q"}, emit)

	require.Error(t, err)
	last := (*events)[len(*events)-1]
	assert.Equal(t, dto.ChatEventError, last.Type)
}

func TestStreamChatPersistenceFailureWarnsThenCompletes(t *testing.T) {
	conversations := newMemConversationRepo()
	conversations.createErr = errors.New("disk full")

	merger := &fakeMerger{results: mergedResults(1)}
	provider := &fakeLLM{deltas: []string{"answer"}}
	svc := newTestChatService(merger, provider, &memUowFactory{uow: &memUow{
		conversations: conversations,
		messages:      newMemMessageRepo(),
	}})

	events, emit := collectEvents()
	err := svc.StreamChat(context.Background(), &dto.ChatRequest{Message: "q"}, emit)
	require.NoError(t, err, "persistence failure after streaming is not a request failure")

	require.GreaterOrEqual(t, len(*events), 3)
	warning := (*events)[len(*events)-2]
	done := (*events)[len(*events)-1]
	assert.Equal(t, dto.ChatEventWarning, warning.Type)
	assert.Contains(t, warning.Warning, "may not have been saved")
	assert.Equal(t, dto.ChatEventDone, done.Type)
}

func TestStreamChatContinuesExistingConversation(t *testing.T) {
	conversations := newMemConversationRepo()
	existing := &entity.Conversation{Title: "earlier chat", CreatedAt: time.Now()}
	require.NoError(t, conversations.Create(context.Background(), existing))

	messages := newMemMessageRepo()
	require.NoError(t, messages.Create(context.Background(), &entity.Message{
		ConversationId: existing.Id,
		Role:           entity.MessageRoleUser,
		Content:        "what is pgvector?",
		CreatedAt:      time.Now().Add(-time.Minute),
	}))
	require.NoError(t, messages.Create(context.Background(), &entity.Message{
		ConversationId: existing.Id,
		Role:           entity.MessageRoleAssistant,
		Content:        "a postgres extension",
		CreatedAt:      time.Now().Add(-30 * time.Second),
	}))

	merger := &fakeMerger{results: mergedResults(1)}
	provider := &fakeLLM{deltas: []string{"it stores vectors"}}
	svc := newTestChatService(merger, provider, &memUowFactory{uow: &memUow{
		conversations: conversations,
		messages:      messages,
	}})

	events, emit := collectEvents()
	err := svc.StreamChat(context.Background(), &dto.ChatRequest{
		Message:        "tell me more",
		ConversationId: existing.Id,
	}, emit)
	require.NoError(t, err)

	// system + 2 history turns + new user message
	require.Len(t, provider.gotMessages, 4)
	assert.Equal(t, entity.MessageRoleSystem, provider.gotMessages[0].Role)
	assert.Equal(t, "what is pgvector?", provider.gotMessages[1].Content)
	assert.Equal(t, "tell me more", provider.gotMessages[3].Content)

	done := (*events)[len(*events)-1]
	assert.Equal(t, existing.Id, done.ConversationId, "existing conversation id is reused")
}

func TestStreamChatRestrictsToArticleIds(t *testing.T) {
	merger := &fakeMerger{results: mergedResults(1)}
	provider := &fakeLLM{deltas: []string{"ok"}}
	svc := newTestChatService(merger, provider, &memUowFactory{uow: &memUow{
		conversations: newMemConversationRepo(),
		messages:      newMemMessageRepo(),
	}})

	_, emit := collectEvents()
	err := svc.StreamChat(context.Background(), &dto.ChatRequest{
		Message:    "q",
		ArticleIds: []int64{4, 8},
	}, emit)
	require.NoError(t, err)

	assert.Equal(t, []int64{4, 8}, merger.lastParams.ContentIds)
}

func TestDeriveTitleTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcdefghij"
	}
	got := deriveTitle(long)
	assert.Len(t, []rune(got), 100)

	assert.Equal(t, "short question", deriveTitle("  short question  "))
}
