package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/api/http"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/api/http/handlers"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/auth"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/config"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/events"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/observability"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/persistence"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/repository"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/service"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store := repository.NewStore(pg.PoolHandle())
	repos := store.Repos()

	sessions := auth.NewSessionStore(redis.ClientHandle())
	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	identityService := service.NewIdentityService(*cfg, service.IdentityDependencies{
		UserRepo: repos.Users,
		RoleRepo: repos.Roles,
		Sessions: sessions,
	})
	userService := service.NewUserService(*cfg, store, repos, dispatcher)
	teamService := service.NewTeamService(store, repos, dispatcher)
	ticketService := service.NewTicketService(store, repos, dispatcher)
	taxonomyService := service.NewTaxonomyService(repos)
	reportService := service.NewReportService(*cfg, repos)
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewMiddleware(identityService.TokenManager(), sessions, identityService, cfg.Auth.BootstrapAdminEmail)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(),
		Auth:           handlers.NewAuthHandler(identityService),
		Users:          handlers.NewUsersHandler(userService),
		Teams:          handlers.NewTeamsHandler(teamService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Taxonomy:       handlers.NewTaxonomyHandler(taxonomyService),
		Reports:        handlers.NewReportsHandler(reportService),
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
