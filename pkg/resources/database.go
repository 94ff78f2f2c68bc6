package resources

import (
	"context"
	"fmt"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func CreateDatabaseConnectionPool(ctx context.Context) (*pgxpool.Pool, StopFn, error) {
	//nolint:nosprintfhostport
	cfg, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		viper.GetString("DB_USER"), viper.GetString("DB_PASSWORD"),
		viper.GetString("DB_HOST"), viper.GetString("DB_PORT"), viper.GetString("DB_NAME")))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to parse database connection string")
		return nil, StopNothing, fmt.Errorf("failed to parse database connection string: %w", err)
	}

	cfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to connect to database")
		return nil, StopNothing, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		log.Ctx(ctx).Error().Err(err).Msg("unable to ping database")

		return nil, StopNothing, fmt.Errorf("failed to ping to database: %w", err)
	}

	stopFn := func(ctx context.Context, _ time.Duration) {
		log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", "database").Msg("closing connection pool")
		pool.Close()
	}

	return pool, stopFn, nil
}

func CreateRedisClient(ctx context.Context) (*redis.Client, StopFn, error) {
	opts, err := redis.ParseURL(viper.GetString("REDIS_URL"))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to parse redis url")
		return nil, StopNothing, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()
		log.Ctx(ctx).Error().Err(err).Msg("unable to ping redis")

		return nil, StopNothing, fmt.Errorf("failed to ping redis: %w", err)
	}

	stopFn := func(ctx context.Context, _ time.Duration) {
		log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", "redis").Msg("closing client")

		err := client.Close()
		if err != nil {
			log.Ctx(ctx).Error().Str("stage", "shut down").Str("component", "redis").Err(err).Msg("failed to close client")
		}
	}

	return client, stopFn, nil
}
