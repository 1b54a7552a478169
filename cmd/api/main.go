// Package main - точка входа REST API приложения CMIS Engagement Hub.
//
// Платформа соединяет студентов бизнес-школы с индустрией: менторы,
// спикеры и судьи подбираются под заявленные навыки, приглашения
// уходят автоматически, а офис вовлечения видит здоровье платформы.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: реализация репозиториев, почта, кеши
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmis-hub/cmis-engagement-hub/config"

	// Application layer
	"github.com/cmis-hub/cmis-engagement-hub/internal/application/command"
	"github.com/cmis-hub/cmis-engagement-hub/internal/application/eventhandler"
	"github.com/cmis-hub/cmis-engagement-hub/internal/application/query"

	// Domain layer
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/engagement"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/outreach"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/program"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"

	// Infrastructure layer
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/email"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/messaging"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/persistence/memory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/persistence/postgres"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/cmis-hub/cmis-engagement-hub/internal/interface/http"
	"github.com/cmis-hub/cmis-engagement-hub/internal/interface/http/handlers"

	// Packages
	"github.com/cmis-hub/cmis-engagement-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

// repositories bundles the storage layer behind domain interfaces so
// the rest of run() does not care whether Postgres or memory backs it.
type repositories struct {
	Directory  directory.Repository
	Program    program.Repository
	Invitation invitation.Repository
	Engagement engagement.Repository
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting CMIS Engagement Hub API",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	edgeLog := logger.New(logger.Options{
		Level: logger.ParseLevel(cfg.Observability.LogLevel),
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ХРАНИЛИЩА: POSTGRES ИЛИ ПАМЯТЬ
	// ─────────────────────────────────────────────────────────────────────────
	var repos repositories
	var dbConn *postgres.Connection

	if cfg.Database.UseMemory {
		log.Info("using in-memory stores (development mode)")
		stores := memory.NewStores()
		if cfg.App.Environment == config.EnvDevelopment {
			if err := stores.Seed(ctx); err != nil {
				return fmt.Errorf("failed to seed demo data: %w", err)
			}
			log.Info("demo dataset loaded")
		}
		repos = repositories{
			Directory:  stores.Directory,
			Program:    stores.Program,
			Invitation: stores.Invitation,
			Engagement: stores.Engagement,
		}
	} else {
		log.Info("connecting to database...")
		dbConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		if err := dbConn.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		log.Info("database connection established")

		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		repos = repositories{
			Directory:  postgres.NewDirectoryRepository(dbConn),
			Program:    postgres.NewProgramRepository(dbConn),
			Invitation: postgres.NewInvitationRepository(dbConn),
			Engagement: postgres.NewEngagementRepository(dbConn),
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var recommendationCache *redis.RecommendationCache
	var analyticsCache *redis.AnalyticsCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		if cfg.Redis.Host != "" {
			redisCfg.Host = cfg.Redis.Host
		}
		if cfg.Redis.Port != 0 {
			redisCfg.Port = cfg.Redis.Port
		}
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
		} else {
			defer redisCache.Close()
			recommendationCache = redis.NewRecommendationCache(redisCache).
				WithTTL(cfg.Matching.RecommendationCacheTTL)
			analyticsCache = redis.NewAnalyticsCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EVENT BUS И DISPATCHER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = log
	eventBus := messaging.NewInMemoryEventBus(busCfg)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	dispatcherCfg := messaging.DefaultDispatcherConfig(eventBus)
	dispatcherCfg.Logger = log
	dispatcher := messaging.NewDispatcher(dispatcherCfg)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ПОЧТА
	// ─────────────────────────────────────────────────────────────────────────
	var sender outreach.Sender = email.NewConsoleSender(os.Stdout, log)
	if !cfg.Email.ConsoleMode {
		// Продакшен-транспорта пока нет; console за ресилиенс-обёрткой,
		// чтобы путь для него уже существовал.
		sender = email.NewResilientSender(sender, log)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")

	if cfg.Features.IsEnabled(config.FeatureNotifyRegistration, nil) {
		registrationMail := eventhandler.NewOnProfileRegisteredHandler(sender, log)
		if err := dispatcher.Register(shared.EventProfileRegistered, "registration_email", registrationMail.Handle); err != nil {
			return fmt.Errorf("failed to register registration handler: %w", err)
		}
	} else {
		log.Warn("registration confirmation emails are disabled by feature flag")
	}
	if cfg.Features.InvitationsEnabled(nil) {
		invitationMail := eventhandler.NewOnInvitationCreatedHandler(sender, log)
		if err := dispatcher.Register(shared.EventInvitationCreated, "invitation_email", invitationMail.Handle); err != nil {
			return fmt.Errorf("failed to register invitation handler: %w", err)
		}
	} else {
		log.Warn("invitation emails are disabled by feature flag")
	}
	if cfg.Features.IsEnabled(config.FeatureEngagementAlerts, nil) {
		warningMail := eventhandler.NewOnEngagementWarningHandler(sender, cfg.Email.AdminEmails, log)
		if err := dispatcher.Register(shared.EventEngagementWarning, "engagement_alert", warningMail.Handle); err != nil {
			return fmt.Errorf("failed to register engagement handler: %w", err)
		}
	} else {
		log.Warn("engagement alert emails are disabled by feature flag")
	}
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}
	defer func() {
		_ = dispatcher.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	monitor := engagement.NewMonitor(engagement.Thresholds{
		CriticalFloor: cfg.Engagement.WarningFloor,
		WarningDelta:  cfg.Engagement.DropDelta,
	})

	registerCmd := command.NewRegisterStakeholderHandler(repos.Directory, eventBus)
	createEventCmd := command.NewCreateEventHandler(repos.Program, eventBus)
	createLectureCmd := command.NewCreateLectureHandler(repos.Program, eventBus)
	createCompetitionCmd := command.NewCreateCompetitionHandler(repos.Program, eventBus)
	inviteCmd := command.NewInviteStakeholdersHandler(repos.Program, repos.Directory, repos.Invitation, eventBus)
	respondCmd := command.NewRespondInvitationHandler(repos.Invitation, eventBus)

	recommendQuery := query.NewRecommendMentorsHandler(repos.Directory)
	listInvitationsQuery := query.NewListInvitationsHandler(repos.Invitation)
	healthQuery := query.NewGetEngagementHealthHandler(repos.Engagement, monitor, eventBus)
	analyticsQuery := query.NewGetPlatformAnalyticsHandler(repos.Directory, repos.Program, repos.Invitation, repos.Engagement)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	healthHandler := handlers.NewHealthHandler(cfg.App.Version)
	if dbConn != nil {
		healthHandler.AddComponent("postgres", dbConn)
	}
	if redisCache != nil {
		healthHandler.AddComponent("redis", redisCache)
	}

	// Интерфейсы кешей принимают nil только как типизированный nil,
	// поэтому прокидываем их условно.
	var recCache handlers.RecommendationCache
	if recommendationCache != nil {
		recCache = recommendationCache
	}
	var anCache handlers.AnalyticsCache
	if analyticsCache != nil {
		anCache = analyticsCache
	}

	server := httpserver.NewServer(*cfg, edgeLog, httpserver.Deps{
		Matching:    handlers.NewMatchingHandler(),
		Directory:   handlers.NewDirectoryHandler(registerCmd, repos.Directory),
		Program:     handlers.NewProgramHandler(createEventCmd, createLectureCmd, createCompetitionCmd, inviteCmd),
		Invitations: handlers.NewInvitationHandler(respondCmd, listInvitationsQuery),
		Mentors:     handlers.NewMentorHandler(recommendQuery, recCache, edgeLog),
		Engagement:  handlers.NewEngagementHandler(healthQuery, analyticsQuery, anCache, edgeLog),
		Health:      healthHandler,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// 10. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("CMIS Engagement Hub API is running", "address", cfg.HTTP.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	case <-ctx.Done():
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	switch cfg.Observability.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
