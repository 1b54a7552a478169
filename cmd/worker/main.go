// Package main - точка входа для фоновых процессов (Worker) CMIS Engagement Hub.
//
// Worker отвечает за периодические задачи:
// - Рассылка follow-up напоминаний по неотвеченным приглашениям
// - Ночная проверка здоровья вовлечённости платформы
//
// Worker и API могут работать раздельно: API пишет приглашения,
// Worker следит, чтобы ни одно из них не зависло без ответа.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmis-hub/cmis-engagement-hub/config"

	// Application layer
	"github.com/cmis-hub/cmis-engagement-hub/internal/application/command"
	"github.com/cmis-hub/cmis-engagement-hub/internal/application/eventhandler"
	"github.com/cmis-hub/cmis-engagement-hub/internal/application/query"

	// Domain layer
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
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/scheduler"
	"github.com/cmis-hub/cmis-engagement-hub/internal/infrastructure/scheduler/jobs"
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

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Scheduler.Enabled {
		return fmt.Errorf("scheduler is disabled; nothing for the worker to do (set SCHEDULER_ENABLED=true)")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting CMIS Engagement Hub Worker",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ХРАНИЛИЩА
	// ─────────────────────────────────────────────────────────────────────────
	var programRepo program.Repository
	var invitationRepo invitation.Repository
	var engagementRepo engagement.Repository

	if cfg.Database.UseMemory {
		log.Info("using in-memory stores (development mode)")
		stores := memory.NewStores()
		if err := stores.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		programRepo = stores.Program
		invitationRepo = stores.Invitation
		engagementRepo = stores.Engagement
	} else {
		log.Info("connecting to database...")
		dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
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

		// Worker тоже должен иметь актуальную схему.
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		programRepo = postgres.NewProgramRepository(dbConn)
		invitationRepo = postgres.NewInvitationRepository(dbConn)
		engagementRepo = postgres.NewEngagementRepository(dbConn)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (опционально, для распределённого лока)
	// ─────────────────────────────────────────────────────────────────────────
	var sweepLock *redis.DistributedLock

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

		redisCache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, sweep lock disabled", "error", err)
		} else {
			defer redisCache.Close()
			sweepLock = redis.NewDistributedLock(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EVENT BUS
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
	// 6. ПОЧТА И ОБРАБОТЧИКИ СОБЫТИЙ
	// ─────────────────────────────────────────────────────────────────────────
	var sender outreach.Sender = email.NewConsoleSender(os.Stdout, log)
	if !cfg.Email.ConsoleMode {
		sender = email.NewResilientSender(sender, log)
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
	// 7. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	followUps := command.NewSendFollowUpsHandler(invitationRepo, sender, eventBus, command.FollowUpConfig{
		Threshold:    cfg.Engagement.FollowUpThreshold,
		MaxFollowUps: cfg.Engagement.MaxFollowUps,
	})
	appreciations := command.NewSendAppreciationsHandler(programRepo, invitationRepo, sender, eventBus)

	monitor := engagement.NewMonitor(engagement.Thresholds{
		CriticalFloor: cfg.Engagement.WarningFloor,
		WarningDelta:  cfg.Engagement.DropDelta,
	})
	healthQuery := query.NewGetEngagementHealthHandler(engagementRepo, monitor, eventBus)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. SCHEDULER И ЗАДАЧИ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing scheduler...")
	schedCfg := scheduler.DefaultSchedulerConfig()
	schedCfg.Logger = log
	schedCfg.Timezone = cfg.App.Location
	sched := scheduler.NewScheduler(schedCfg)
	sched.OnJobError(func(jobName string, err error) {
		log.Error("scheduled job failed", "job", jobName, "error", err)
	})

	if cfg.Features.FollowUpsEnabled(nil) {
		sweepJob := jobs.NewFollowUpSweepJob(followUps, log)
		sweepJob.SkipOutsideSendWindow = cfg.Features.IsEnabled(config.FeatureNotifySendWindow, nil)
		if sweepLock != nil {
			sweepJob.WithLock(sweepLock, cfg.Scheduler.JobTimeout)
		}
		if err := sched.Register(sweepJob, scheduler.NewIntervalSchedule(cfg.Scheduler.FollowUpSweepInterval)); err != nil {
			return fmt.Errorf("failed to register follow-up sweep: %w", err)
		}
	} else {
		log.Warn("follow-up reminders are disabled by feature flag")
	}

	daily := scheduler.MustParseCronExpression(fmt.Sprintf("%d %d * * *",
		cfg.Scheduler.AppreciationMinute, cfg.Scheduler.AppreciationHour))
	if cfg.Features.IsEnabled(config.FeatureNotifyAppreciation, nil) {
		appreciationJob := jobs.NewAppreciationSweepJob(appreciations, log)
		appreciationJob.SkipOutsideSendWindow = cfg.Features.IsEnabled(config.FeatureNotifySendWindow, nil)
		if sweepLock != nil {
			appreciationJob.WithLock(sweepLock, cfg.Scheduler.JobTimeout)
		}
		if err := sched.Register(appreciationJob, daily); err != nil {
			return fmt.Errorf("failed to register appreciation sweep: %w", err)
		}
	} else {
		log.Warn("appreciation emails are disabled by feature flag")
	}

	nightly := scheduler.MustParseCronExpression(fmt.Sprintf("%d %d * * *",
		cfg.Scheduler.EngagementCheckMinute, cfg.Scheduler.EngagementCheckHour))
	if cfg.Features.IsEnabled(config.FeatureEngagementNightly, nil) {
		checkJob := jobs.NewEngagementCheckJob(healthQuery, log)
		if err := sched.Register(checkJob, nightly); err != nil {
			return fmt.Errorf("failed to register engagement check: %w", err)
		}
	} else {
		log.Warn("nightly engagement check is disabled by feature flag")
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	log.Info("CMIS Engagement Hub Worker is running",
		"follow_up_interval", cfg.Scheduler.FollowUpSweepInterval.String(),
		"appreciation_sweep", daily.String(),
		"engagement_check", nightly.String(),
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())
	if err := sched.Stop(); err != nil {
		log.Warn("scheduler did not stop cleanly", "error", err)
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
