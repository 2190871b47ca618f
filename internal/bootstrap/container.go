package bootstrap

import (
	"context"
	"log"

	"helpdesk-ai-be/internal/config"
	"helpdesk-ai-be/internal/controller"
	"helpdesk-ai-be/internal/handler"
	"helpdesk-ai-be/internal/pkg/logger"
	"helpdesk-ai-be/internal/pkg/mailer"
	"helpdesk-ai-be/internal/repository/implementation"
	"helpdesk-ai-be/internal/repository/memory"
	"helpdesk-ai-be/internal/repository/unitofwork"
	"helpdesk-ai-be/internal/service"
	"helpdesk-ai-be/internal/websocket"
	"helpdesk-ai-be/pkg/embedding"
	"helpdesk-ai-be/pkg/embedding/jina"
	"helpdesk-ai-be/pkg/llm/factory"
	"helpdesk-ai-be/pkg/retrieval"
	"helpdesk-ai-be/pkg/ticketing"

	pktNats "helpdesk-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	ChatController      controller.IChatController
	TicketController    controller.ITicketController
	KnowledgeController controller.IKnowledgeController
	MetricsController   controller.IMetricsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.JinaAI)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory turn state and per-session ticket locks
	turnStateRepo := memory.NewTurnStateRepository()
	lockRegistry := memory.NewSessionLockRegistry()
	ticketEngine := ticketing.NewEngine(lockRegistry)

	kbRepo := implementation.NewKBDocumentRepository(db)
	retriever := retrieval.NewRetriever(embeddingProvider, kbRepo, 0)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(cfg.Keys.EmbedDocsTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedDocsTopic,
		uowFactory,
		embeddingProvider,
	)

	// 4. Services
	authService := service.NewAuthService(uowFactory)
	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		retriever,
		ticketEngine,
		turnStateRepo,
		natsPub,
		sysLogger,
	)
	ticketService := service.NewTicketService(uowFactory)
	knowledgeService := service.NewKnowledgeService(uowFactory, publisherService, natsPub)
	metricsService := service.NewMetricsService(uowFactory)

	// 4.5 Notification System
	notifService := service.NewNotificationService(
		natsSub,
		wsHub,
		emailService,
		cfg.App.OnCallEmail,
		wsLogger,
	)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	return &Container{
		AuthController:      controller.NewAuthController(authService),
		ChatController:      controller.NewChatController(chatService),
		TicketController:    controller.NewTicketController(ticketService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		MetricsController:   controller.NewMetricsController(metricsService),

		ConsumerService: consumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
