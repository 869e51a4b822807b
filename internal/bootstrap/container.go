package bootstrap

import (
	"context"
	"log"
	"time"

	"gelisim-chatbot-be/internal/config"
	"gelisim-chatbot-be/internal/controller"
	"gelisim-chatbot-be/internal/pkg/logger"
	"gelisim-chatbot-be/internal/service"
	"gelisim-chatbot-be/pkg/brand"
	"gelisim-chatbot-be/pkg/budget"
	"gelisim-chatbot-be/pkg/cache"
	"gelisim-chatbot-be/pkg/embedding"
	"gelisim-chatbot-be/pkg/llm/factory"
	"gelisim-chatbot-be/pkg/search"
	"gelisim-chatbot-be/pkg/vectorindex"

	pkgNats "gelisim-chatbot-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const appVersion = "1.0.0"

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	HealthController controller.IHealthController
	AdminController  controller.IAdminController

	// Shared infrastructure (exposed for the server and for shutdown)
	Logger        logger.ILogger
	Redis         *redis.Client
	NatsPublisher *pkgNats.Publisher

	// Nil when NATS is unavailable; consumers treat that as "drop events".
	Events controller.EventPublisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Infrastructure
	// Redis backs both the budget counters and (by default) the response
	// cache. Admission fails closed when it is down, so a broken connection
	// here shows up loudly in the first request.
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

	// NATS carries security events for offline monitoring. The gateway runs
	// fine without it; events are simply dropped.
	var eventPublisher controller.EventPublisher
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}

	// 3. AI providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.OpenAIBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Pipeline components
	searchClient := search.NewClient(
		brand.NewDetector(),
		embeddingProvider,
		vectorindex.NewPgvectorIndex(db),
		sysLogger,
	)

	var kvStore cache.KVStore
	if cfg.Cache.Backend == "memory" {
		kvStore = cache.NewMemoryKVStore()
		log.Printf("[INFO] Using Cache Backend: MEMORY")
	} else {
		kvStore = cache.NewRedisKVStore(rdb)
		log.Printf("[INFO] Using Cache Backend: REDIS")
	}
	responseCache := cache.NewResponseCache(
		kvStore,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		sysLogger,
	)

	limiter := budget.NewLimiter(
		budget.NewRedisCounterStore(rdb),
		cfg.Budget.IPDailyLimit,
		cfg.Budget.GlobalDailyLimit,
		sysLogger,
	)

	// 5. Services
	chatService := service.NewChatService(searchClient, llmProvider, responseCache, sysLogger)

	// 6. Controllers
	return &Container{
		ChatController:   controller.NewChatController(chatService, limiter, eventPublisher, sysLogger),
		HealthController: controller.NewHealthController(appVersion),
		AdminController:  controller.NewAdminController(limiter),

		Logger:        sysLogger,
		Redis:         rdb,
		NatsPublisher: natsPub,
		Events:        eventPublisher,
	}
}
