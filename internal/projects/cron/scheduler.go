package cronjob

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/service"
)

// Exporter produces the snapshot that each run writes out.
type Exporter interface {
	ExportSnapshot(ctx context.Context) (service.Snapshot, error)
}

// Scheduler periodically writes project snapshots to a directory.
type Scheduler struct {
	cron    *cron.Cron
	exp     Exporter
	dir     string
	timeout time.Duration
	log     *zap.Logger
}

func NewScheduler(exp Exporter, dir string, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		exp:     exp,
		dir:     dir,
		timeout: time.Minute,
		log:     log,
	}
}

// Start registers the export job on spec (standard cron or "@every 1h") and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error("snapshot export failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule snapshot export %q: %w", spec, err)
	}

	s.log.Info("snapshot scheduler started", zap.String("schedule", spec), zap.String("dir", s.dir))
	s.cron.Start()
	return nil
}

// Stop halts scheduling; the returned context is done once a running job finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce exports one snapshot and returns the file it wrote.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	snap, err := s.exp.ExportSnapshot(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "projects-"+snap.ExportedAt.UTC().Format("20060102T150405Z")+".json")
	if err := service.WriteSnapshotFile(path, snap); err != nil {
		return "", err
	}

	s.log.Info("snapshot exported",
		zap.String("path", path),
		zap.Int("records", len(snap.Records)),
		zap.String("status", string(snap.Status)))
	return path, nil
}
