package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-sync/config"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/identifier"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/repository"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/service"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/service/servicetest"
)

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))

	_, err = NewLogger("development", "loud")
	assert.Error(t, err)
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	fileStore, err := OpenCache(ctx, config.CacheConfig{Backend: config.CacheFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.NoError(t, fileStore.Ping(ctx))

	mr := miniredis.RunT(t)
	redisStore, err := OpenCache(ctx, config.CacheConfig{Backend: config.CacheRedis, RedisAddr: mr.Addr(), Namespace: "t"})
	require.NoError(t, err)
	assert.NoError(t, redisStore.Ping(ctx))
	require.NoError(t, redisStore.Close())

	_, err = OpenCache(ctx, config.CacheConfig{Backend: "tape"})
	assert.Error(t, err)
}

func TestBuildRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	local, err := OpenCache(ctx, config.CacheConfig{Backend: config.CacheFile, Dir: t.TempDir()})
	require.NoError(t, err)
	remote := servicetest.NewRemote()
	svc := service.NewProjectService(local, remote, identifier.NewGenerator(remote, local, "PRJ", 4, nil))

	r := BuildRouter(RouterDeps{
		ServiceName: "project-sync",
		Version:     "test",
		CORSOrigins: []string{"https://app.example"},
		Log:         zap.NewNop(),
		Projects:    svc,
		Cache:       local,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set("Origin", "https://app.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewApp_UnreachableRemoteStaysWired(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			DSN:    "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1",
			Driver: config.DriverPostgres,
		},
		Cache: config.CacheConfig{Backend: config.CacheFile, Dir: t.TempDir()},
		IDs:   config.IDConfig{Prefix: "PRJ", Width: 4},
	}

	app, err := NewApp(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &repository.Limited{}, app.Remote)
	assert.Error(t, app.Remote.Ping(ctx))

	res, err := app.Service.Create(ctx, domain.CreateInput{Attributes: map[string]any{"name": "Offline"}})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDegraded, res.Status)
	assert.ErrorIs(t, res.Err, domain.ErrRemoteUnavailable)
	assert.Equal(t, "PRJ-OTH-0001", res.Value.StructuredID)
}

func TestNewApp_MalformedDSNStartsOffline(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			DSN:    "postgres://x@127.0.0.1:notaport/x",
			Driver: config.DriverPgx,
		},
		Cache: config.CacheConfig{Backend: config.CacheFile, Dir: t.TempDir()},
		IDs:   config.IDConfig{Prefix: "PRJ", Width: 4},
	}

	app, err := NewApp(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &repository.Offline{}, app.Remote)
	res := app.Service.GetAllOrdered(ctx)
	assert.Equal(t, domain.StatusDegraded, res.Status)
}

func TestMigrateWithRetry(t *testing.T) {
	t.Run("retries until the schema applies", func(t *testing.T) {
		calls := 0
		migrate := func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("connection refused")
			}
			return nil
		}

		ok := migrateWithRetry(context.Background(), migrate, zap.NewNop(), time.Millisecond, 2*time.Millisecond)
		assert.True(t, ok)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		migrate := func(context.Context) error { return errors.New("connection refused") }

		ok := migrateWithRetry(ctx, migrate, zap.NewNop(), time.Millisecond, 5*time.Millisecond)
		assert.False(t, ok)
	})
}
