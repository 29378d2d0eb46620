package bootstrap

import (
	"context"
	"log"

	"copyforge-be/internal/config"
	"copyforge-be/internal/controller"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/pkg/mailer"
	"copyforge-be/internal/repository/implementation"
	"copyforge-be/internal/repository/memory"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/internal/service"
	"copyforge-be/internal/websocket"
	"copyforge-be/pkg/actions"
	"copyforge-be/pkg/embedding"
	"copyforge-be/pkg/insights"
	"copyforge-be/pkg/llm"
	"copyforge-be/pkg/llm/factory"
	"copyforge-be/pkg/pipeline"
	"copyforge-be/pkg/refine"
	"copyforge-be/pkg/research"
	"copyforge-be/pkg/scoring"

	pktNats "copyforge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// painPointEmbedTopic is the in-process channel topic for embedding
// backfill work.
const painPointEmbedTopic = "painpoint_embed"

type Container struct {
	// Controllers
	GenerationController   controller.IGenerationController
	SessionController      controller.ISessionController
	VersionController      controller.IVersionController
	ActionController       controller.IActionController
	VoiceController        controller.IVoiceController
	PainPointController    controller.IPainPointController
	NotificationController controller.INotificationController
	WsController           controller.IWsController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	WebSocketHub *websocket.Hub
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

	// Embedding Provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, "")
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Grounded search and deep research are provider capabilities; only
	// some backends have them, the rest degrade gracefully.
	searcher, _ := llmProvider.(llm.GroundedSearcher)
	deepResearcher, _ := llmProvider.(llm.DeepResearcher)

	// In-memory insights cache (session scoped)
	insightsRepo := memory.NewInsightsRepository()

	// 2.5 Infrastructure
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
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Quality machinery
	scorer := scoring.NewScorer(llmProvider, sysLogger)
	refineLoop := refine.NewLoop(llmProvider, scorer, sysLogger)
	researcher := research.NewResearcher(searcher, sysLogger)
	extractor := insights.NewExtractor(llmProvider, sysLogger)

	// 4. Services
	versionService := service.NewVersionService(uowFactory, sysLogger)
	variantWriter := service.NewVariantWriter(uowFactory, versionService, sysLogger)
	jobTracker := service.NewJobTracker(uowFactory, natsPub, wsHub, sysLogger)

	runner := pipeline.NewRunner(
		llmProvider,
		scorer,
		refineLoop,
		researcher,
		extractor,
		jobTracker,
		variantWriter,
		sysLogger,
	)
	runner.SetInsightsSink(insightsRepo)

	engine := actions.NewEngine(
		llmProvider,
		searcher,
		deepResearcher,
		scorer,
		refineLoop,
		versionService,
		sysLogger,
	)

	publisherService := service.NewPublisherService(painPointEmbedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		painPointEmbedTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	generationService := service.NewGenerationService(uowFactory, runner, embeddingProvider, natsPub, sysLogger)
	sessionService := service.NewSessionService(uowFactory, llmProvider, insightsRepo, sysLogger)
	actionService := service.NewActionService(uowFactory, engine, insightsRepo, rdb, wsHub, sysLogger)
	voiceService := service.NewVoiceService(uowFactory)
	painPointService := service.NewPainPointService(uowFactory, publisherService, embeddingProvider, sysLogger)

	// 4.5 Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, emailService, sessionService, wsLogger)

	if natsSub != nil {
		go notifService.Start()
	}

	return &Container{
		GenerationController:   controller.NewGenerationController(generationService),
		SessionController:      controller.NewSessionController(sessionService),
		VersionController:      controller.NewVersionController(versionService, sessionService),
		ActionController:       controller.NewActionController(actionService),
		VoiceController:        controller.NewVoiceController(voiceService),
		PainPointController:    controller.NewPainPointController(painPointService),
		NotificationController: controller.NewNotificationController(notifService),
		WsController:           controller.NewWsController(wsHub, wsLogger),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
	}
}
