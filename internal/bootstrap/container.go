package bootstrap

import (
	"log"

	"ai-tutoring-be/internal/config"
	"ai-tutoring-be/internal/controller"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/repository/unitofwork"
	"ai-tutoring-be/internal/service"
	"ai-tutoring-be/internal/session"
	internalWS "ai-tutoring-be/internal/websocket"
	"ai-tutoring-be/pkg/embedding"
	"ai-tutoring-be/pkg/llm/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ConversationController controller.IConversationController
	DocumentController     controller.IDocumentController

	// WebSocket session entrypoint
	SessionHandler *internalWS.SessionHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider, err := embedding.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Keys.GoogleGemini,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaModel,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.PersistChatTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.PersistChatTopic,
		uowFactory,
		sysLogger,
	)

	conversationService := service.NewConversationService(uowFactory)
	transcriptService := service.NewTranscriptService(uowFactory, publisherService, sysLogger)
	documentService := service.NewDocumentService(uowFactory)

	// 5. Sessions
	chainBuilder := session.NewChainFactory(
		uowFactory,
		embeddingProvider,
		llmProvider,
		cfg.Ai.RetrievalTopK,
		sysLogger,
	)

	sessionLogger := logger.NewIsolatedLogger("logs/session.log")
	newSession := func(params session.Params, sink session.EventSink) *session.Controller {
		return session.NewController(
			params,
			sink,
			conversationService,
			transcriptService,
			documentService,
			chainBuilder,
			cfg.Ai.MemoryWindow,
			sessionLogger,
		)
	}
	sessionHandler := internalWS.NewSessionHandler(newSession, sessionLogger)

	// 6. Controllers
	conversationController := controller.NewConversationController(conversationService)
	documentController := controller.NewDocumentController(documentService)

	return &Container{
		ConversationController: conversationController,
		DocumentController:     documentController,
		SessionHandler:         sessionHandler,
		ConsumerService:        consumerService,
	}
}
