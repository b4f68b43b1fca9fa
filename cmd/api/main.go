package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/maintenance-sla/internal/api/http"
	"github.com/spec-kit/maintenance-sla/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-sla/internal/auth"
	"github.com/spec-kit/maintenance-sla/internal/config"
	"github.com/spec-kit/maintenance-sla/internal/events"
	"github.com/spec-kit/maintenance-sla/internal/observability"
	"github.com/spec-kit/maintenance-sla/internal/persistence"
	"github.com/spec-kit/maintenance-sla/internal/repository"
	"github.com/spec-kit/maintenance-sla/internal/service"
	"github.com/spec-kit/maintenance-sla/internal/sla"
	"github.com/spec-kit/maintenance-sla/internal/worker"
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

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	pauseRepo := repository.NewPauseRepository(pool)
	calendarRepo := repository.NewCalendarRepository(pool)
	ruleRepo := repository.NewEscalationRuleRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	calendars := sla.NewCalendarProvider(calendarRepo, redis.Client, logger)
	calculator := sla.NewCalculator(calendars)

	evaluator := service.NewSLAService(calculator, logger)
	pauseService := service.NewPauseService(ticketRepo, pauseRepo, dispatcher, logger)
	escalationService := service.NewEscalationService(service.EscalationDependencies{
		RuleRepo:         ruleRepo,
		UserRepo:         userRepo,
		NotificationRepo: notificationRepo,
		Dispatcher:       dispatcher,
	}, logger)
	sweepService := service.NewSweepService(ticketRepo, evaluator, escalationService, dispatcher, metrics, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	sweepWorker, err := worker.NewSweepWorker(sweepService, redis, cfg.Sweep, logger)
	if err != nil {
		logger.Fatal("failed to init sweep worker", zap.Error(err))
	}
	if err := sweepWorker.Start(); err != nil {
		logger.Fatal("failed to start sweep worker", zap.Error(err))
	}
	defer sweepWorker.Stop()

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret)
	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		SLA:            handlers.NewSLAHandler(ticketRepo, evaluator),
		Pause:          handlers.NewPauseHandler(pauseService),
		Sweep:          handlers.NewSweepHandler(sweepService, metrics),
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
