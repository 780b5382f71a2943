package bootstrap

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"intituas-ai-be/internal/config"
	"intituas-ai-be/internal/controller"
	"intituas-ai-be/internal/handler"
	"intituas-ai-be/internal/pkg/logger"
	"intituas-ai-be/internal/pkg/mailer"
	"intituas-ai-be/internal/repository/contract"
	"intituas-ai-be/internal/repository/memory"
	"intituas-ai-be/internal/repository/mongostore"
	"intituas-ai-be/internal/repository/unitofwork"
	"intituas-ai-be/internal/service"
	"intituas-ai-be/internal/websocket"
	"intituas-ai-be/pkg/capability"
	"intituas-ai-be/pkg/events"
	"intituas-ai-be/pkg/llm/factory"
	"intituas-ai-be/pkg/metrics"
	pktNats "intituas-ai-be/pkg/nats"
	"intituas-ai-be/pkg/usage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	HistoryController controller.IHistoryController
	ContactController controller.IContactController
	AuthController    controller.IAuthController

	ChatSocketHandler *handler.ChatSocketHandler

	// Shared infrastructure the server wires into middleware
	Logger  logger.ILogger
	Metrics *metrics.Metrics
	Limiter *usage.Limiter

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	// Direct access for the CLI
	AnswerService service.IAnswerService
	HistoryStore  contract.HistoryStore

	closers []func()
}

// Close releases broker and driver connections in reverse order of opening.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func NewCapability(cfg *config.Config, m *metrics.Metrics, llmLogger logger.ILogger) (*capability.Client, error) {
	provider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.LLMBaseURL,
		APIKey:   cfg.APIKeyFor(cfg.Ai.LLMProvider),
		Timeout:  cfg.Ai.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	variant, err := capability.ParseSchemaVariant(cfg.Ai.SchemaVariant)
	if err != nil {
		return nil, err
	}

	return capability.NewClient(provider,
		capability.WithSchemaVariant(variant),
		capability.WithObserver(func(flow string, elapsed time.Duration, err error) {
			if m != nil {
				m.ObserveFlow(flow, elapsed, err)
			}
			details := map[string]interface{}{
				"flow":        flow,
				"provider":    cfg.Ai.LLMProvider,
				"model":       cfg.Ai.LLMModel,
				"duration_ms": elapsed.Milliseconds(),
			}
			if err != nil {
				details["error"] = err.Error()
				llmLogger.Error("LLM", "Flow failed", details)
				return
			}
			llmLogger.Info("LLM", "Flow finished", details)
		}),
	)
}

func newRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// NewHistoryStore picks the SQL or Mongo backend. The returned closer is
// never nil.
func NewHistoryStore(ctx context.Context, db *gorm.DB, cfg *config.Config) (contract.HistoryStore, func(), error) {
	switch cfg.History.Backend {
	case "mongo":
		client, err := mongostore.Connect(ctx, cfg.Database.MongoURI)
		if err != nil {
			return nil, func() {}, err
		}
		store := mongostore.NewHistoryStore(client.Database(cfg.Database.MongoDatabase), nil)
		if err := store.EnsureIndexes(ctx); err != nil {
			log.Printf("[WARN] %v", err)
		}
		closer := func() { _ = client.Disconnect(context.Background()) }
		return store, closer, nil
	case "sql", "":
		return service.NewHistoryService(unitofwork.NewRepositoryFactory(db), nil), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unsupported HISTORY_BACKEND %q", cfg.History.Backend)
	}
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	logDir := filepath.Dir(cfg.App.LogFilePath)
	llmLogger := logger.NewIsolatedLogger(filepath.Join(logDir, "llm.log"))
	wsLogger := logger.NewIsolatedLogger(filepath.Join(logDir, "websocket.log"))
	m := metrics.New()
	c.Logger = sysLogger
	c.Metrics = m

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Infrastructure
	var publisher events.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			publisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	rdb := newRedis(cfg.App.RedisURL)
	var counter usage.Counter = usage.NewMemoryCounter()
	if rdb != nil {
		counter = usage.NewRedisCounter(rdb)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}
	c.Limiter = usage.NewLimiter(counter, cfg.Usage.DailyLimit, usage.WithFallback(usage.NewMemoryCounter()))

	wsHub := websocket.NewHub(rdb, wsLogger)
	c.WebSocketHub = wsHub

	// 3. Generative capability
	capab, err := NewCapability(cfg, m, llmLogger)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s), schema variant %s", cfg.Ai.LLMProvider, cfg.Ai.LLMModel, capab.Variant())

	// 4. History
	baseStore, closeStore, err := NewHistoryStore(context.Background(), db, cfg)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closeStore)
	historyStore := service.NewNotifyingHistoryStore(baseStore, wsHub)
	c.HistoryStore = historyStore

	var recorder service.IHistoryRecorder
	if cfg.History.Async {
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, watermill.NewStdLogger(false, false))
		c.closers = append(c.closers, func() { _ = pubSub.Close() })
		recorder = service.NewAsyncHistoryRecorder(pubSub, cfg.History.Topic)
		c.ConsumerService = service.NewConsumerService(pubSub, cfg.History.Topic, historyStore, m, sysLogger)
	} else {
		recorder = service.NewSyncHistoryRecorder(historyStore, m)
	}

	// 5. Services
	answerService := service.NewAnswerService(capab, recorder, publisher, m, sysLogger)
	suggestionService := service.NewSuggestionService(capab, memory.NewSuggestionCache(cfg.Ai.SuggestionCacheTTL), m, sysLogger)
	mindMapService := service.NewMindMapService(capab, m, sysLogger)
	contactService := service.NewContactService(uowFactory, emailService, publisher, cfg.App.ContactInbox, m, sysLogger)
	authService := service.NewAuthService(uowFactory, historyStore, emailService, publisher, cfg.App.JWTSecret, sysLogger)
	c.AnswerService = answerService

	// 6. Controllers
	c.ChatController = controller.NewChatController(answerService, suggestionService, mindMapService)
	c.HistoryController = controller.NewHistoryController(historyStore)
	c.ContactController = controller.NewContactController(contactService)
	c.AuthController = controller.NewAuthController(authService)
	c.ChatSocketHandler = handler.NewChatSocketHandler(answerService, wsHub, c.Limiter, cfg.App.JWTSecret, wsLogger)

	return c, nil
}
