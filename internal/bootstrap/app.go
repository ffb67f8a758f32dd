package bootstrap

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-sync/config"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/identifier"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/repository"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/service"
)

// App is the wired project service plus the stores behind it.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Service *service.ProjectService
	Remote  repository.Store
	Cache   CacheStore

	remoteCloser io.Closer
}

// NewApp opens the cache and the remote store. A database that is down at
// startup is not fatal: remote calls degrade until it answers again. Only a
// remote store that cannot be configured at all (a malformed DSN, a failed
// schema migration) leaves the service permanently offline.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	local, err := OpenCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	remote, closer, err := OpenRemote(ctx, cfg, log)
	if err != nil {
		log.Warn("remote store misconfigured, starting offline", zap.Error(err))
		remote = repository.NewOffline(err)
	}

	gen := identifier.NewGenerator(remote, local, cfg.IDs.Prefix, cfg.IDs.Width, log)
	svc := service.NewProjectService(local, remote, gen, service.WithLogger(log))

	return &App{
		Config:       cfg,
		Log:          log,
		Service:      svc,
		Remote:       remote,
		Cache:        local,
		remoteCloser: closer,
	}, nil
}

func (a *App) Close() error {
	err := a.Service.Close()
	if a.remoteCloser != nil {
		err = errors.Join(err, a.remoteCloser.Close())
	}
	return err
}
