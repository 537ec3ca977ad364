package bootstrap

import (
	"context"

	"diacare-bot/internal/config"
	"diacare-bot/internal/controller"
	"diacare-bot/internal/pkg/logger"
	"diacare-bot/internal/registry"
	"diacare-bot/internal/repository/implementation"
	"diacare-bot/internal/repository/memory"
	"diacare-bot/internal/service"
	"diacare-bot/pkg/filesearch"
	"diacare-bot/pkg/genai"
	"diacare-bot/pkg/onboarding"
	"diacare-bot/pkg/query"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController

	// Background Services (Exposed for main.go to run)
	IngestService service.IIngestService

	Logger logger.ILogger
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	kvRepository := implementation.NewKeyValueRepository(db)

	profiles, err := registry.NewProfileRegistry(ctx, kvRepository)
	if err != nil {
		return nil, err
	}
	modes, err := registry.NewModeRegistry(ctx, kvRepository, cfg.Ai.UseKnowledgeBase)
	if err != nil {
		return nil, err
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Remote file search plumbing
	genaiClient := genai.NewClient(cfg.Keys.GoogleGemini, cfg.Ai.Model, cfg.Ai.GenerateTimeout)
	storeCache := memory.NewStoreCache()
	resolver := filesearch.NewResolver(genaiClient, storeCache)
	manager := filesearch.NewManager(genaiClient, resolver, filesearch.PollPolicy{
		Interval: cfg.Upload.PollInterval,
		MaxWait:  cfg.Upload.MaxWait,
	})

	// 4. Domain services
	machine := onboarding.NewMachine(profiles)
	orchestrator := query.NewOrchestrator(genaiClient, resolver, profiles)

	publisherService := service.NewPublisherService(pubSub, cfg.App.IngestTopic)
	ingestService := service.NewIngestService(
		pubSub,
		cfg.App.IngestTopic,
		manager,
		service.NewLocalContentFetcher(cfg.Upload.Dir),
		service.NewHttpReplyPusher(cfg.Push.Endpoint, cfg.Push.AccessToken),
		sysLogger,
	)

	assistantService := service.NewAssistantService(
		machine,
		profiles,
		modes,
		manager,
		orchestrator,
		publisherService,
		cfg.Ai.KnowledgeBaseName,
		sysLogger,
	)

	// 5. Controllers
	webhookController := controller.NewWebhookController(assistantService)

	return &Container{
		WebhookController: webhookController,
		IngestService:     ingestService,
		Logger:            sysLogger,
	}, nil
}
