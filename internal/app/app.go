package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/config"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/kvstore"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

// App owns the entity store and whichever backend connection sits
// behind it.
type App struct {
	Config *config.Config
	Store  kvstore.CollectionStore

	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	switch cfg.StoreBackend {
	case "postgres":
		pool, err := connectDB(cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		store := kvstore.NewPostgresStore(pool)
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure collections schema: %w", err)
		}
		app.db = pool
		app.Store = store

	case "redis":
		client, err := connectRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		app.redisClient = client
		app.Store = kvstore.NewRedisStore(client, "")

	default:
		utils.Logger.Info("Using in-memory entity store; data is lost on restart")
		app.Store = kvstore.NewMemoryStore()
	}

	return app, nil
}

// Ping probes the active store with a cheap read.
func (a *App) Ping(ctx context.Context) error {
	_, err := a.Store.Load(ctx, constants.CollectionProperties)
	return err
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
		utils.Logger.Info("DB connection closed.")
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			utils.Logger.WithError(err).Warn("Closing redis client")
		} else {
			utils.Logger.Info("Redis connection closed.")
		}
	}
}

func connectDB(databaseURL string) (*pgxpool.Pool, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		dbPool, err = newDBPool(ctx, databaseURL)
		if err == nil {
			utils.Logger.Infof("Connected to DB on attempt %d", i)
			return dbPool, nil
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}

func connectRedis(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	backoff := initialBackoff
	var err error
	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		err = client.Ping(ctx).Err()
		cancel()
		if err == nil {
			utils.Logger.Infof("Connected to redis on attempt %d", i)
			return client, nil
		}

		utils.Logger.WithError(err).Warnf(
			"Failed redis connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	_ = client.Close()
	return nil, fmt.Errorf("unable to reach redis after %d attempts: %w", maxRetries, err)
}
