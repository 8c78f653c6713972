package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/propos/maintenance-engine/internal/api/http"
	"github.com/propos/maintenance-engine/internal/api/http/handlers"
	"github.com/propos/maintenance-engine/internal/auth"
	"github.com/propos/maintenance-engine/internal/config"
	"github.com/propos/maintenance-engine/internal/events"
	"github.com/propos/maintenance-engine/internal/insight"
	"github.com/propos/maintenance-engine/internal/notify"
	"github.com/propos/maintenance-engine/internal/observability"
	"github.com/propos/maintenance-engine/internal/persistence"
	"github.com/propos/maintenance-engine/internal/repository"
	"github.com/propos/maintenance-engine/internal/service"
	"github.com/propos/maintenance-engine/internal/triage"
	"github.com/propos/maintenance-engine/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	technicianRepo := repository.NewTechnicianRepository(pool)
	directoryRepo := repository.NewDirectoryRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	var imageClassifier triage.ImageClassifier
	if vc := triage.NewVisionClassifier(cfg.Vision.APIKey, cfg.Vision.Model); vc != nil {
		imageClassifier = vc
	}
	severity := triage.NewSeverity(imageClassifier, cfg.Vision.RequestTimeout(), cfg.Vision.RetryBackoff(), logger)

	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo:     ticketRepo,
		TechnicianRepo: technicianRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		TechnicianRepo: technicianRepo,
		DirectoryRepo:  directoryRepo,
		Assignment:     assignmentService,
		Severity:       severity,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	var sender notify.Sender = notify.NewLogSender(logger)
	if cfg.Notification.SendGridAPIKey != "" {
		sender = notify.NewSendGridSender(cfg.Notification.SendGridAPIKey, cfg.Notification.FromName, cfg.Notification.FromEmail)
	}
	escalationService := service.NewEscalationService(sender, logger, cfg.Notification)
	worker.StartEscalationWorker(escalationService, dispatcher)

	insightService := insight.NewService(ticketRepo, technicianRepo, redis.Client, cfg.Insight.CacheTTL(), logger)

	authService := service.NewAuthService(cfg.Auth, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Technicians:    handlers.NewTechniciansHandler(technicianRepo),
		Insights:       handlers.NewInsightsHandler(insightService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
