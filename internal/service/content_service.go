package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-digest-be/internal/dto"
	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/pkg/logger"
	"ai-digest-be/internal/repository/specification"
	"ai-digest-be/internal/repository/unitofwork"
)

type IContentService interface {
	Create(ctx context.Context, request *dto.CreateContentRequest) (*dto.CreateContentResponse, error)
	Delete(ctx context.Context, pool string, id int64) error
}

type contentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewContentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IContentService {
	return &contentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

// Create upserts a summarized item into its pool, keyed by URL, then queues
// it for embedding. The item is searchable by keyword immediately; semantic
// search picks it up once the worker has stored its vector.
func (cs *contentService) Create(ctx context.Context, request *dto.CreateContentRequest) (*dto.CreateContentResponse, error) {
	pool := entity.PoolPublic
	if request.Pool == string(entity.PoolPrivate) {
		pool = entity.PoolPrivate
	}

	insights := make([]entity.InsightSnippet, 0, len(request.Insights))
	for _, i := range request.Insights {
		insights = append(insights, entity.InsightSnippet{
			Text:      i.Text,
			Timestamp: i.Timestamp,
		})
	}

	item := &entity.ContentItem{
		Title:       request.Title,
		URL:         request.URL,
		Summary:     request.Summary,
		Transcript:  request.Transcript,
		Insights:    insights,
		ContentType: request.ContentType,
		Platform:    request.Platform,
		CreatedAt:   time.Now(),
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ContentRepository().Upsert(ctx, pool, item); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.PublishEmbedContentMessage{
		ContentId: item.Id,
		Pool:      string(pool),
	})
	if err != nil {
		return nil, err
	}
	if err := cs.publisherService.Publish(ctx, payload); err != nil {
		// The row is committed; the item just stays keyword-only until the
		// next re-ingestion. Not worth failing the request over.
		cs.logger.Error("content", "failed to queue embedding", map[string]interface{}{
			"content_id": item.Id,
			"pool":       string(pool),
			"error":      err.Error(),
		})
	}

	return &dto.CreateContentResponse{
		Id:        item.Id,
		Pool:      string(pool),
		CreatedAt: item.CreatedAt,
	}, nil
}

func (cs *contentService) Delete(ctx context.Context, pool string, id int64) error {
	p := entity.PoolPublic
	if pool == string(entity.PoolPrivate) {
		p = entity.PoolPrivate
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.ContentRepository().FindOne(ctx, p, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("content item not found")
	}

	return uow.ContentRepository().Delete(ctx, p, id)
}
