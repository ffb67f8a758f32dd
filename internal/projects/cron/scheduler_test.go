package cronjob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/service"
)

type exporterFunc func(ctx context.Context) (service.Snapshot, error)

func (f exporterFunc) ExportSnapshot(ctx context.Context) (service.Snapshot, error) { return f(ctx) }

func TestRunOnce(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	exp := exporterFunc(func(context.Context) (service.Snapshot, error) {
		return service.Snapshot{
			ExportedAt: at,
			Source:     domain.SourceLocal,
			Status:     domain.StatusDegraded,
			Records:    []domain.ProjectRecord{{TemporaryID: "local-1"}},
		}, nil
	})

	path, err := NewScheduler(exp, dir, nil).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "projects-20250601T083000Z.json", path[len(dir)+1:])

	snap, err := service.ReadSnapshotFile(path)
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, domain.StatusDegraded, snap.Status)
}

func TestRunOnce_ExportError(t *testing.T) {
	boom := errors.New("both stores down")
	exp := exporterFunc(func(context.Context) (service.Snapshot, error) { return service.Snapshot{}, boom })

	_, err := NewScheduler(exp, t.TempDir(), nil).RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestStart(t *testing.T) {
	exp := exporterFunc(func(context.Context) (service.Snapshot, error) { return service.Snapshot{}, nil })

	s := NewScheduler(exp, t.TempDir(), nil)
	assert.Error(t, s.Start("every so often"))

	require.NoError(t, s.Start("@every 1h"))
	<-s.Stop().Done()
}
