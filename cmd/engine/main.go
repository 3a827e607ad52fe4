// Package main is the entry point of the rewards engine.
//
// The engine keeps the books of a volunteer community: objective
// assignments with exactly-once point awards, the append-only points
// ledger, the engagement log and periodic impact reports. This binary
// wires configuration, storage, the event bus and the command/query
// handlers, then waits for a shutdown signal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/uplift-hub/uplift-rewards-engine/config"
	"github.com/uplift-hub/uplift-rewards-engine/internal/application/command"
	"github.com/uplift-hub/uplift-rewards-engine/internal/application/query"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/ledger"
	"github.com/uplift-hub/uplift-rewards-engine/internal/domain/shared"
	"github.com/uplift-hub/uplift-rewards-engine/internal/infrastructure/messaging"
	"github.com/uplift-hub/uplift-rewards-engine/internal/infrastructure/persistence/postgres"
	"github.com/uplift-hub/uplift-rewards-engine/internal/infrastructure/persistence/redis"
	"github.com/uplift-hub/uplift-rewards-engine/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

// Engine bundles the wired command and query handlers. Transport layers
// (HTTP, gRPC, bot frontends) consume this struct; the engine itself
// exposes no endpoints.
type Engine struct {
	CreateObjective *command.CreateObjectiveHandler
	DeleteObjective *command.DeleteObjectiveHandler
	AssignObjective *command.AssignObjectiveHandler
	RecordProgress  *command.RecordProgressHandler
	Unassign        *command.UnassignObjectiveHandler
	AppendLedger    *command.AppendLedgerEntryHandler
	LogEngagement   *command.LogEngagementHandler
	GenerateReport  *command.GenerateReportHandler

	ListObjectives     *query.ListObjectivesHandler
	GetObjective       *query.GetObjectiveHandler
	ListMemberProgress *query.ListMemberProgressHandler
	GetPointsHistory   *query.GetPointsHistoryHandler
	ComputeStats       *query.ComputeStatsHandler
	GetImpactSummary   *query.GetImpactSummaryHandler
	GetLeaderboard     *query.GetLeaderboardHandler
	ListReports        *query.ListReportsHandler
	GetReport          *query.GetReportHandler
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	logOpts := logger.DefaultOptions()
	logOpts.Level = logger.ParseLevel(cfg.App.LogLevel)
	log := logger.New(logOpts).With(logger.F("app", cfg.App.Name))

	log.Info("starting rewards engine",
		logger.F("env", string(cfg.App.Environment)),
		logger.F("version", cfg.App.Version),
		logger.F("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
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

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("checking database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (optional read-side caches)
	// ─────────────────────────────────────────────────────────────────────────
	var statsCache ledger.StatsCache
	var leaderboardCache ledger.LeaderboardCache
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			// The ledger stays authoritative without caches; degrade.
			log.Warn("failed to connect to Redis, caching disabled", logger.Err(err))
		} else {
			defer redisCache.Close()
			if cfg.Features.IsEnabled(config.FeatureStatsCache) {
				statsCache = redis.NewStatsCache(redisCache, cfg.Engine.StatsCacheTTL)
			}
			if cfg.Features.IsEnabled(config.FeatureLeaderboardCache) {
				leaderboardCache = redis.NewLeaderboardCache(redisCache, cfg.Engine.StatsCacheTTL)
			}
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	objectiveRepo := postgres.NewObjectiveRepository(dbConn)
	progressRepo := postgres.NewProgressRepository(dbConn)
	ledgerRepo := postgres.NewLedgerRepository(dbConn)
	engagementRepo := postgres.NewEngagementRepository(dbConn)
	reportRepo := postgres.NewReportRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. EVENT BUS + CACHE INVALIDATION
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// Every award makes the cached stats and leaderboard stale for the
	// affected member; drop them so the next read recomputes.
	if statsCache != nil || leaderboardCache != nil {
		err := eventBus.Subscribe(shared.EventPointsAwarded, func(event shared.Event) error {
			memberID := event.AggregateID()
			if statsCache != nil {
				if err := statsCache.Invalidate(context.Background(), memberID); err != nil {
					return err
				}
			}
			if leaderboardCache != nil {
				return leaderboardCache.Invalidate(context.Background())
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe cache invalidator: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("wiring command and query handlers...")
	recordCfg := command.RecordProgressHandlerConfig{
		ConflictRetryAttempts: cfg.Engine.ConflictRetryAttempts,
		AuditEvents:           cfg.Features.IsEnabled(config.FeatureProgressAuditEvents),
	}

	engine := &Engine{
		CreateObjective: command.NewCreateObjectiveHandler(objectiveRepo, eventBus, log),
		DeleteObjective: command.NewDeleteObjectiveHandler(objectiveRepo, eventBus, log),
		AssignObjective: command.NewAssignObjectiveHandler(objectiveRepo, progressRepo, eventBus, log),
		RecordProgress:  command.NewRecordProgressHandler(objectiveRepo, progressRepo, eventBus, recordCfg, log),
		Unassign:        command.NewUnassignObjectiveHandler(progressRepo, eventBus, log),
		AppendLedger:    command.NewAppendLedgerEntryHandler(ledgerRepo, eventBus, log),
		LogEngagement:   command.NewLogEngagementHandler(engagementRepo, eventBus, log),
		GenerateReport:  command.NewGenerateReportHandler(engagementRepo, reportRepo, nil, eventBus, log),

		ListObjectives:     query.NewListObjectivesHandler(objectiveRepo),
		GetObjective:       query.NewGetObjectiveHandler(objectiveRepo),
		ListMemberProgress: query.NewListMemberProgressHandler(progressRepo),
		GetPointsHistory:   query.NewGetPointsHistoryHandler(ledgerRepo),
		ComputeStats:       query.NewComputeStatsHandler(ledgerRepo, statsCache, log),
		GetImpactSummary:   query.NewGetImpactSummaryHandler(engagementRepo, log),
		GetLeaderboard:     query.NewGetLeaderboardHandler(ledgerRepo, leaderboardCache, log),
		ListReports:        query.NewListReportsHandler(reportRepo),
		GetReport:          query.NewGetReportHandler(reportRepo),
	}
	// Prime the leaderboard cache so the first read after a restart does
	// not pay for a full ledger scan.
	if _, err := engine.GetLeaderboard.Handle(ctx, query.GetLeaderboardQuery{}); err != nil {
		log.Warn("leaderboard warm-up failed", logger.Err(err))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("rewards engine is running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.F("signal", sig.String()))
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...", logger.F("timeout", cfg.App.ShutdownTimeout.String()))
	log.Info("shutdown completed successfully")
	return nil
}
