package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-digest-be/internal/dto"
	"ai-digest-be/internal/entity"
	"ai-digest-be/internal/pkg/logger"
	"ai-digest-be/internal/repository/specification"
	"ai-digest-be/internal/repository/unitofwork"
	"ai-digest-be/pkg/embedding"
	"ai-digest-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	// embedChunkSize keeps the document comfortably under the embedding
	// model's input cap. Long transcripts are reduced to the leading chunk.
	embedChunkSize    = 6000
	embedChunkOverlap = 200
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedContentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads would loop forever on Nack
		return
	}

	pool := entity.Pool(payload.Pool)
	if pool != entity.PoolPublic && pool != entity.PoolPrivate {
		cs.logger.Error("consumer", "unknown pool in message", map[string]interface{}{
			"pool": payload.Pool,
		})
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.ContentRepository().FindOne(ctx, pool, specification.ByID{ID: payload.ContentId})
	if err != nil {
		cs.logger.Error("consumer", "failed to load content item", map[string]interface{}{
			"content_id": payload.ContentId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if item == nil {
		// Deleted before the worker got to it. Nothing to embed.
		msg.Ack()
		return
	}

	document := buildEmbeddingDocument(item)
	chunks := utils.SplitText(document, embedChunkSize, embedChunkOverlap)

	vector, err := cs.embeddingProvider.Generate(ctx, chunks[0])
	if err != nil {
		cs.logger.Error("consumer", "failed to generate embedding", map[string]interface{}{
			"content_id": payload.ContentId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.ContentRepository().UpdateEmbedding(ctx, pool, item.Id, vector); err != nil {
		cs.logger.Error("consumer", "failed to store embedding", map[string]interface{}{
			"content_id": payload.ContentId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("consumer", "content item embedded", map[string]interface{}{
		"content_id": item.Id,
		"pool":       string(pool),
	})
	msg.Ack()
}

// buildEmbeddingDocument flattens the item into the text that gets embedded:
// title, summary, and insights carry the most signal, transcript last.
func buildEmbeddingDocument(item *entity.ContentItem) string {
	var doc strings.Builder

	doc.WriteString(fmt.Sprintf("Title: %s\n", item.Title))
	if item.Platform != "" {
		doc.WriteString(fmt.Sprintf("Platform: %s\n", item.Platform))
	}
	doc.WriteString("\n")
	doc.WriteString(item.Summary)
	doc.WriteString("\n")
	for _, insight := range item.Insights {
		doc.WriteString("- ")
		doc.WriteString(insight.Text)
		doc.WriteString("\n")
	}
	if item.Transcript != "" {
		doc.WriteString("\n")
		doc.WriteString(item.Transcript)
	}

	return doc.String()
}
