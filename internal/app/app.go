// Package app assembles the engine: repositories, services, HTTP surface.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/schoolleague/fantasy-engine/internal/config"
	"github.com/schoolleague/fantasy-engine/internal/domain/badge"
	"github.com/schoolleague/fantasy-engine/internal/domain/fantasy"
	"github.com/schoolleague/fantasy-engine/internal/domain/gameweek"
	"github.com/schoolleague/fantasy-engine/internal/domain/player"
	"github.com/schoolleague/fantasy-engine/internal/infrastructure/notification"
	"github.com/schoolleague/fantasy-engine/internal/infrastructure/repository/memory"
	"github.com/schoolleague/fantasy-engine/internal/infrastructure/repository/postgres"
	"github.com/schoolleague/fantasy-engine/internal/interfaces/httpapi"
	"github.com/schoolleague/fantasy-engine/internal/platform/cache"
	"github.com/schoolleague/fantasy-engine/internal/platform/logging"
	"github.com/schoolleague/fantasy-engine/internal/platform/resilience"
	"github.com/schoolleague/fantasy-engine/internal/usecase"
)

type repositories struct {
	players player.Repository
	stats   player.FantasyStatsRepository
	teams   fantasy.Repository
	badges  badge.Repository
	history gameweek.Repository
	closeDB func() error
}

// NewHTTPServer builds the fully wired server. The returned cleanup closes
// the database connection when one was opened; it is safe to call after
// server shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	var notifier usecase.Notifier
	if cfg.NotifyWebhookEnabled {
		notifier = notification.NewWebhookNotifier(notification.WebhookNotifierConfig{
			SinkURL:   cfg.NotifyWebhookURL,
			AuthToken: cfg.NotifyWebhookToken,
			Timeout:   cfg.NotifyWebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.NotifyCircuitEnabled,
				FailureThreshold: cfg.NotifyCircuitFailureCount,
				OpenTimeout:      cfg.NotifyCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.NotifyCircuitHalfOpenMax,
			},
		}, logger)
	}

	matchResults := usecase.NewMatchResultService(logger)
	teamUpdates := usecase.NewTeamUpdateService(repos.teams, repos.stats, cfg.WorkerCount, logger)
	leaderboard := usecase.NewLeaderboardService(
		repos.teams,
		repos.badges,
		repos.history,
		repos.stats,
		notifier,
		store,
		cfg.SeasonEndAt,
		logger,
	)
	matchDay := usecase.NewMatchDayService(repos.players, matchResults, teamUpdates, leaderboard, logger)
	pricing := usecase.NewPricingService(repos.players, repos.stats, logger)
	squad := usecase.NewSquadService(repos.teams, logger)

	if cfg.DBURL == "" {
		seedCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		seeded, err := pricing.SeedInitialPrices(seedCtx)
		if err != nil {
			return nil, nil, fmt.Errorf("seed initial prices: %w", err)
		}
		logger.Info("in-memory store seeded", "players_priced", seeded)
	}

	handler := httpapi.NewHandler(matchDay, leaderboard, pricing, squad, logger)
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func() error {
		if repos.closeDB == nil {
			return nil
		}
		return repos.closeDB()
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("storage backend selected", "backend", "memory")
		return repositories{
			players: memory.NewPlayerRepository(memory.SeedPlayers()),
			stats:   memory.NewFantasyStatsRepository(),
			teams:   memory.NewTeamRepository(memory.SeedTeams()),
			badges:  memory.NewBadgeRepository(),
			history: memory.NewGameweekRepository(),
		}, nil
	}

	db, err := otelsqlx.Open("postgres", cfg.DBURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("storage backend selected", "backend", "postgres", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		players: postgres.NewPlayerRepository(db),
		stats:   postgres.NewFantasyStatsRepository(db),
		teams:   postgres.NewTeamRepository(db),
		badges:  postgres.NewBadgeRepository(db),
		history: postgres.NewGameweekRepository(db),
		closeDB: db.Close,
	}, nil
}
