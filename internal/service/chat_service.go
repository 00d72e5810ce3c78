package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-digest-be/internal/dto"
	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/pkg/apperror"
	"ai-digest-be/internal/pkg/logger"
	"ai-digest-be/internal/repository/specification"
	"ai-digest-be/internal/repository/unitofwork"
	"ai-digest-be/pkg/llm"
	"ai-digest-be/pkg/rag/history"
	"ai-digest-be/pkg/rag/prompt"
	"ai-digest-be/pkg/rag/search"
)

const (
	// chatCandidateCount is how many candidates the merger produces before the
	// context bound trims them.
	chatCandidateCount = 10

	// maxContextRecords bounds prompt size: only the top results by score are
	// serialized into the system instruction and cited as sources.
	maxContextRecords = 5

	// titleMaxLength caps the auto-derived conversation title.
	titleMaxLength = 100
)

// ChatEmitter receives each stream event in order. Returning an error means
// the consumer closed; the producer stops without further work.
type ChatEmitter func(event *dto.ChatEvent) error

type IChatService interface {
	StreamChat(ctx context.Context, request *dto.ChatRequest, emit ChatEmitter) error
	GetConversations(ctx context.Context) ([]*dto.ConversationResponse, error)
	GetMessages(ctx context.Context, conversationId int64) ([]*dto.MessageResponse, error)
	DeleteConversation(ctx context.Context, conversationId int64) error
}

type chatService struct {
	uowFactory    unitofwork.RepositoryFactory
	merger        search.Executor
	llmProvider   llm.LLMProvider
	historyLoader *history.Loader
	logger        logger.ILogger

	threshold   float64
	temperature float64
	maxTokens   int
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	merger search.Executor,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
	threshold float64,
	temperature float64,
	maxTokens int,
) IChatService {
	return &chatService{
		uowFactory:    uowFactory,
		merger:        merger,
		llmProvider:   llmProvider,
		historyLoader: history.NewLoader(uowFactory),
		logger:        log,
		threshold:     threshold,
		temperature:   temperature,
		maxTokens:     maxTokens,
	}
}

// StreamChat answers a conversational question grounded in merged search
// results. Stages run strictly in order: context building precedes prompt
// submission, which precedes persistence. All terminal outcomes are emitted
// as events; the returned error is for the caller's log only.
func (cs *chatService) StreamChat(ctx context.Context, request *dto.ChatRequest, emit ChatEmitter) error {
	// RECEIVED
	if strings.TrimSpace(request.Message) == "" {
		err := &apperror.ValidationError{Field: "message", Message: "must not be empty"}
		_ = emit(&dto.ChatEvent{Type: dto.ChatEventError, Error: err.Error()})
		return err
	}

	// CONTEXT_BUILT
	records, sources, err := cs.buildContext(ctx, request)
	if err != nil {
		_ = emit(&dto.ChatEvent{Type: dto.ChatEventError, Error: err.Error()})
		return err
	}

	messages := cs.assemblePrompt(ctx, request, records)

	// STREAMING
	reply, err := cs.llmProvider.ChatStream(ctx, messages, func(delta string) error {
		return emit(&dto.ChatEvent{Type: dto.ChatEventContent, Content: delta})
	},
		llm.WithTemperature(cs.temperature),
		llm.WithMaxTokens(cs.maxTokens),
	)
	if err != nil {
		var upstreamErr *apperror.UpstreamError
		if errors.As(err, &upstreamErr) {
			_ = emit(&dto.ChatEvent{Type: dto.ChatEventError, Error: err.Error()})
			return err
		}
		// The consumer closed mid-stream: stop quietly, nothing to clean up.
		cs.logger.Info("chat", "stream consumer closed early", map[string]interface{}{
			"conversation_id": request.ConversationId,
		})
		return err
	}

	// PERSISTED
	conversationId, persistErr := cs.persistExchange(ctx, request, reply, sources)
	if persistErr != nil {
		// The answer already reached the user; report a soft warning instead
		// of failing the request. No rollback of partial writes.
		cs.logger.Error("chat", "failed to persist exchange", map[string]interface{}{
			"conversation_id": request.ConversationId,
			"error":           persistErr.Error(),
		})
		warning := &apperror.PersistenceWarning{Err: persistErr}
		_ = emit(&dto.ChatEvent{Type: dto.ChatEventWarning, Warning: warning.Error()})
	}

	// DONE
	return emit(&dto.ChatEvent{
		Type:           dto.ChatEventDone,
		ConversationId: conversationId,
		Sources:        sources,
	})
}

// buildContext runs the merger in semantic-leaning hybrid mode and keeps the
// top results by score to bound prompt size.
func (cs *chatService) buildContext(ctx context.Context, request *dto.ChatRequest) ([]prompt.ContextRecord, []dto.SourceDTO, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	results, err := cs.merger.Execute(ctx, uow, search.Params{
		Query:      request.Message,
		Mode:       search.ModeHybrid,
		Limit:      chatCandidateCount,
		Threshold:  cs.threshold,
		ContentIds: request.ArticleIds,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(results) > maxContextRecords {
		results = results[:maxContextRecords]
	}

	records := make([]prompt.ContextRecord, 0, len(results))
	sources := make([]dto.SourceDTO, 0, len(results))
	for _, r := range results {
		item := r.Item

		insights := make([]string, 0, len(item.Insights))
		for _, snippet := range item.Insights {
			text := snippet.Text
			if snippet.Timestamp != "" {
				text = fmt.Sprintf("%s [%s]", text, snippet.Timestamp)
			}
			insights = append(insights, text)
		}

		sourceLabel := item.Platform
		if sourceLabel == "" {
			sourceLabel = item.ContentType
		}

		records = append(records, prompt.ContextRecord{
			Id:          item.Id,
			Pool:        string(r.Pool),
			Title:       item.Title,
			SourceLabel: sourceLabel,
			Summary:     item.Summary,
			Insights:    insights,
			URL:         item.URL,
			Score:       r.Similarity,
		})
		sources = append(sources, dto.SourceDTO{
			Id:         item.Id,
			Title:      item.Title,
			URL:        item.URL,
			Pool:       string(r.Pool),
			Similarity: r.Similarity,
		})
	}

	return records, sources, nil
}

// assemblePrompt builds the full message list: system instruction with the
// serialized context, prior conversation turns, then the new user message.
func (cs *chatService) assemblePrompt(ctx context.Context, request *dto.ChatRequest, records []prompt.ContextRecord) []llm.Message {
	messages := []llm.Message{
		{Role: entity.MessageRoleSystem, Content: prompt.NewGroundedBuilder(records).Build()},
	}

	if request.ConversationId != 0 {
		hist, err := cs.historyLoader.LoadConversationHistory(ctx, request.ConversationId)
		if err != nil {
			cs.logger.Warn("chat", "failed to load history", map[string]interface{}{
				"conversation_id": request.ConversationId,
				"error":           err.Error(),
			})
		} else {
			messages = append(messages, hist...)
		}
	}

	return append(messages, llm.Message{Role: entity.MessageRoleUser, Content: request.Message})
}

// persistExchange appends the user and assistant messages, creating the
// conversation first if none was supplied.
func (cs *chatService) persistExchange(ctx context.Context, request *dto.ChatRequest, reply string, sources []dto.SourceDTO) (int64, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return request.ConversationId, err
	}
	defer uow.Rollback()

	now := time.Now()
	conversationId := request.ConversationId

	if conversationId == 0 {
		conversation := &entity.Conversation{
			Title:     deriveTitle(request.Message),
			CreatedAt: now,
		}
		if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
			return 0, err
		}
		conversationId = conversation.Id
	}

	userMessage := &entity.Message{
		ConversationId: conversationId,
		Role:           entity.MessageRoleUser,
		Content:        request.Message,
		CreatedAt:      now,
	}
	if err := uow.MessageRepository().Create(ctx, userMessage); err != nil {
		return conversationId, err
	}

	assistantMessage := &entity.Message{
		ConversationId: conversationId,
		Role:           entity.MessageRoleAssistant,
		Content:        reply,
		CreatedAt:      now.Add(1 * time.Millisecond), // keeps ordering stable within the pair
	}
	if err := uow.MessageRepository().Create(ctx, assistantMessage); err != nil {
		return conversationId, err
	}

	if len(sources) > 0 {
		citations := make([]*entity.MessageSource, len(sources))
		for i, s := range sources {
			citations[i] = &entity.MessageSource{
				MessageId:  assistantMessage.Id,
				ContentId:  s.Id,
				Pool:       entity.Pool(s.Pool),
				Title:      s.Title,
				URL:        s.URL,
				Similarity: s.Similarity,
				CreatedAt:  now,
			}
		}
		if err := uow.MessageRepository().CreateSources(ctx, citations); err != nil {
			return conversationId, err
		}
	}

	if err := uow.ConversationRepository().Touch(ctx, conversationId, now); err != nil {
		return conversationId, err
	}

	return conversationId, uow.Commit()
}

func deriveTitle(message string) string {
	title := strings.TrimSpace(message)
	runes := []rune(title)
	if len(runes) > titleMaxLength {
		return string(runes[:titleMaxLength])
	}
	return title
}

// GetConversations lists conversations, most recently active first.
func (cs *chatService) GetConversations(ctx context.Context) ([]*dto.ConversationResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		response = append(response, &dto.ConversationResponse{
			Id:        c.Id,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}

	return response, nil
}

// GetMessages returns a conversation's messages in creation order with their
// source citations attached.
func (cs *chatService) GetMessages(ctx context.Context, conversationId int64) ([]*dto.MessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fmt.Errorf("conversation not found")
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	messageIds := make([]int64, len(messages))
	for i, msg := range messages {
		messageIds[i] = msg.Id
	}

	citations, err := uow.MessageRepository().FindSourcesByMessageIds(ctx, messageIds)
	if err != nil {
		return nil, err
	}

	sourcesByMsgId := make(map[int64][]dto.SourceDTO)
	for _, c := range citations {
		sourcesByMsgId[c.MessageId] = append(sourcesByMsgId[c.MessageId], dto.SourceDTO{
			Id:         c.ContentId,
			Title:      c.Title,
			URL:        c.URL,
			Pool:       string(c.Pool),
			Similarity: c.Similarity,
		})
	}

	response := make([]*dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, &dto.MessageResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
			Sources:   sourcesByMsgId[msg.Id],
		})
	}

	return response, nil
}

// DeleteConversation removes a conversation with its messages and citations.
func (cs *chatService) DeleteConversation(ctx context.Context, conversationId int64) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
	)
	if err != nil {
		return err
	}
	if conversation == nil {
		return fmt.Errorf("conversation not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteSourcesByConversationId(ctx, conversationId); err != nil {
		return err
	}
	if err := uow.MessageRepository().DeleteByConversationId(ctx, conversationId); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, conversationId); err != nil {
		return err
	}

	return uow.Commit()
}
