package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GoSim-25-26J-441/project-sync/config"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/cache"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/repository"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/service"
	"github.com/GoSim-25-26J-441/project-sync/internal/storage/postgres"
)

// CacheStore is a local cache that can also be health-checked.
type CacheStore interface {
	service.LocalStore
	Ping(ctx context.Context) error
}

// OpenCache opens the configured cache backend.
func OpenCache(ctx context.Context, cfg config.CacheConfig) (CacheStore, error) {
	switch cfg.Backend {
	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := cache.NewRedisStore(client, cfg.Namespace)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	case config.CacheFile:
		return cache.NewFileStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// OpenRemote opens the PostgreSQL pool, applies the schema and wraps the
// repository with the configured timeout and rate limit. A database that does
// not answer at startup is not an error: the store is returned anyway, calls
// fail until the server is reachable, and the schema is applied in the
// background once it is. The returned closer stops that retry and releases
// the connection.
func OpenRemote(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, io.Closer, error) {
	conn, err := postgres.Open(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	repo := repository.NewProjectRepository(conn.DB)
	closer := &remoteCloser{conn: conn}

	if perr := conn.Ping(ctx); perr != nil {
		log.Warn("remote store not reachable yet, deferring schema migration", zap.Error(perr))
		retryCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		closer.cancel, closer.done = cancel, done
		go func() {
			defer close(done)
			migrateWithRetry(retryCtx, repo.Migrate, log, migrateRetryMin, migrateRetryMax)
		}()
	} else if err := repo.Migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	log.Info("remote store configured",
		zap.String("driver", cfg.Database.Driver),
		zap.Duration("timeout", cfg.Remote.Timeout),
		zap.Float64("rate_limit", cfg.Remote.RateLimit))

	return repository.NewLimited(repo, repository.LimitConfig{
		RateLimit: rate.Limit(cfg.Remote.RateLimit),
		BurstSize: cfg.Remote.Burst,
		Timeout:   cfg.Remote.Timeout,
	}), closer, nil
}

const (
	migrateRetryMin = time.Second
	migrateRetryMax = time.Minute
)

// migrateWithRetry calls migrate until it succeeds or ctx ends, doubling the
// wait between attempts up to maxWait.
func migrateWithRetry(ctx context.Context, migrate func(context.Context) error, log *zap.Logger, minWait, maxWait time.Duration) bool {
	wait := minWait
	for attempt := 1; ; attempt++ {
		err := migrate(ctx)
		if err == nil {
			log.Info("remote schema applied", zap.Int("attempt", attempt))
			return true
		}
		log.Debug("schema migration failed, retrying",
			zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return false
		case <-t.C:
		}
		wait = min(wait*2, maxWait)
	}
}

type remoteCloser struct {
	conn   io.Closer
	cancel context.CancelFunc
	done   <-chan struct{}
}

func (c *remoteCloser) Close() error {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	return c.conn.Close()
}
