package main

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/focusquest/internal/config"
	"github.com/cory-johannsen/focusquest/internal/game/catalog"
	"github.com/cory-johannsen/focusquest/internal/game/combat"
	"github.com/cory-johannsen/focusquest/internal/game/dice"
	"github.com/cory-johannsen/focusquest/internal/game/progression"
	"github.com/cory-johannsen/focusquest/internal/game/session"
	"github.com/cory-johannsen/focusquest/internal/gameserver"
	"github.com/cory-johannsen/focusquest/internal/observability"
	"github.com/cory-johannsen/focusquest/internal/storage/postgres"
	"github.com/cory-johannsen/focusquest/internal/storage/redis"
	"github.com/cory-johannsen/focusquest/internal/storage/sqlite"
)

// App holds the composed service for one command invocation.
type App struct {
	Config  config.Config
	Service *gameserver.Service
	Logger  *zap.Logger
}

func provideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideCatalog(cfg config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	start := time.Now()
	cat, err := catalog.Load(cfg.Content.AreasDir)
	if err != nil {
		return nil, fmt.Errorf("loading areas from %s: %w", cfg.Content.AreasDir, err)
	}
	logger.Debug("catalog loaded",
		zap.Int("areas", len(cat.Areas())),
		zap.Int("items", cat.ItemCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return cat, nil
}

// provideCharacterStore opens the backend named by storage.driver.
func provideCharacterStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (gameserver.CharacterStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		logger.Debug("database connected", zap.String("host", cfg.Database.Host))
		return pool.Characters(), pool.Close, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLite.Path, cfg.SQLite.BusyTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		logger.Debug("sqlite store opened", zap.String("path", cfg.SQLite.Path))
		return store, func() { _ = store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func provideRedisClient(ctx context.Context, cfg config.Config) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideQuestStore(client *goredis.Client, logger *zap.Logger) gameserver.QuestStore {
	return redis.NewQuestRepository(client, logger)
}

func provideRoller(logger *zap.Logger) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
}

func provideCombatConfig(cfg config.Config) combat.Config {
	r := cfg.Rewards
	return combat.Config{
		EncounterIntervalMinutes: r.EncounterIntervalMinutes,
		XPPerEnemyLevel:          r.XPPerEnemyLevel,
		GoldPerEnemyLevel:        r.GoldPerEnemyLevel,
		LuckDropFactor:           r.LuckDropFactor,
		CritMultiplier:           r.CritMultiplier,
		MinHitChance:             r.MinHitChance,
		MaxHitChance:             r.MaxHitChance,
	}
}

func provideProgressionConfig(cfg config.Config) progression.Config {
	r := cfg.Rewards
	return progression.Config{
		XPPerMinute:        r.XPPerMinute,
		GoldPerMinute:      r.GoldPerMinute,
		StatPointsPerLevel: r.StatPointsPerLevel,
	}
}

func provideSessionManager(cfg config.Config, logger *zap.Logger) *session.Manager {
	return session.NewManager(cfg.Session.MinuteDuration, logger)
}
