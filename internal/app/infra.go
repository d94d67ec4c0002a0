package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lireddit-server/internal/config"
	"lireddit-server/internal/db"
	"lireddit-server/internal/logger"
	"lireddit-server/internal/redis"
)

type Infra struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, cfg.Database.URL); err != nil {
			return nil, err
		}
		logger.Info("migrations applied", nil)
	}

	pool, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("redis ready", map[string]any{"addr": cfg.Redis.Addr})

	return &Infra{
		DB:    pool,
		Redis: redisClient,
	}, nil
}

func (i *Infra) Close() error {
	i.DB.Close()
	return i.Redis.Close()
}
