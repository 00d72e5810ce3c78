package bootstrap

import (
	"log"

	"ai-digest-be/internal/config"
	"ai-digest-be/internal/controller"
	"ai-digest-be/internal/pkg/logger"
	"ai-digest-be/internal/repository/unitofwork"
	"ai-digest-be/internal/service"
	"ai-digest-be/pkg/embedding"
	"ai-digest-be/pkg/llm/factory"
	"ai-digest-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SearchController  controller.ISearchController
	ChatController    controller.IChatController
	ContentController controller.IContentController

	// Background services (run by main.go)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	embeddingProvider, err := embedding.NewOpenAIProvider(
		cfg.Keys.OpenAI,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.EmbeddingDimensions,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize embedding provider: %v", err)
	}
	log.Printf("[INFO] Using embedding model: %s (%d dims)", cfg.Ai.EmbeddingModel, cfg.Ai.EmbeddingDimensions)

	llmProvider, err := factory.NewLLMProvider("openai", cfg.Ai.ChatModel, cfg.Keys.OpenAI)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using chat model: %s", cfg.Ai.ChatModel)

	merger := search.NewMerger(embeddingProvider, sysLogger)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedContentTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedContentTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	searchService := service.NewSearchService(uowFactory, merger, cfg.Ai.SimilarityThreshold, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		merger,
		llmProvider,
		sysLogger,
		cfg.Ai.SimilarityThreshold,
		cfg.Ai.ChatTemperature,
		cfg.Ai.ChatMaxTokens,
	)
	contentService := service.NewContentService(uowFactory, publisherService, sysLogger)

	// 5. Controllers
	return &Container{
		SearchController:  controller.NewSearchController(searchService),
		ChatController:    controller.NewChatController(chatService),
		ContentController: controller.NewContentController(contentService),
		ConsumerService:   consumerService,
	}
}
