package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

func TestSnapshot_ExportImportRoundTrip(t *testing.T) {
	src := newHarness(t)
	src.create(t, "Atlas", "React")
	src.remote.SetDown(true)
	src.create(t, "Draft", "Docker")
	src.remote.SetDown(false)

	snap, err := src.svc.ExportSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Records, 2)
	assert.Equal(t, fixedNow, snap.ExportedAt)
	assert.Equal(t, domain.SourceRemote, snap.Source)

	dst := newHarness(t)
	rep := dst.svc.ImportSnapshot(context.Background(), snap.Records)
	assert.Equal(t, ImportReport{Imported: 2, Synced: 2}, rep)

	cached := dst.cached(t)
	require.Len(t, cached, 2)
	for i, rec := range snap.Records {
		assert.Equal(t, rec.StructuredID, cached[i].StructuredID)
	}

	// replaying the same snapshot does not duplicate anything
	rep = dst.svc.ImportSnapshot(context.Background(), snap.Records)
	assert.Equal(t, 2, rep.Imported)
	assert.Len(t, dst.cached(t), 2)
	assert.Len(t, dst.remote.Records(), 2)
}

func TestSnapshot_ImportOfflineAndInvalid(t *testing.T) {
	h := newHarness(t)
	h.remote.SetDown(true)

	rep := h.svc.ImportSnapshot(context.Background(), []domain.ProjectRecord{
		{TemporaryID: "local-a", StructuredID: "PRJ-WEB-0001", Attributes: map[string]any{"name": "A"}},
		{TemporaryID: "local-b", Attributes: map[string]any{"description": "no name"}},
		{PermanentID: "p-9", StructuredID: "PRJ-OTH-0009", Attributes: map[string]any{"name": "Known"}},
	})

	assert.Equal(t, 2, rep.Imported)
	assert.Equal(t, 2, rep.LocalOnly)
	require.Len(t, rep.Failed, 1)
	assert.Equal(t, 1, rep.Failed[0].Index)
	assert.Equal(t, "local-b", rep.Failed[0].Key)

	cached := h.cached(t)
	require.Len(t, cached, 2)
	assert.Equal(t, "local-a", cached[0].TemporaryID)
	assert.Equal(t, "p-9", cached[1].PermanentID)
}

func TestListOrganizations(t *testing.T) {
	h := newHarness(t)
	h.remote.SetOrganizations(domain.Organization{ID: "o-1", Name: "Acme"})
	ctx := context.Background()

	res, err := h.svc.ListOrganizations(ctx)
	require.NoError(t, err)
	assert.True(t, res.Synced())
	assert.Len(t, res.Value, 1)

	h.remote.SetDown(true)
	res, err = h.svc.ListOrganizations(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDegraded, res.Status)
	require.Len(t, res.Value, 1)
	assert.Equal(t, "Acme", res.Value[0].Name)
}

func TestClearCacheLeavesRemote(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.remote.SetOrganizations(domain.Organization{ID: "o-1", Name: "Acme"})
	h.create(t, "Atlas")
	_, err := h.svc.ListOrganizations(ctx)
	require.NoError(t, err)

	require.NoError(t, h.svc.ClearCache(ctx))
	assert.Empty(t, h.cached(t))
	orgs, err := h.local.ReadOrganizations(ctx)
	require.NoError(t, err)
	assert.Len(t, orgs, 1)

	require.NoError(t, h.svc.ClearAll(ctx))
	orgs, err = h.local.ReadOrganizations(ctx)
	require.NoError(t, err)
	assert.Empty(t, orgs)
	assert.Len(t, h.remote.Records(), 1)
}

func TestSnapshotFile(t *testing.T) {
	h := newHarness(t)
	h.create(t, "Atlas")
	snap, err := h.svc.ExportSnapshot(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "snap.json")
	require.NoError(t, WriteSnapshotFile(path, snap))

	got, err := ReadSnapshotFile(path)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, snap.Records[0].StructuredID, got.Records[0].StructuredID)

	bare := filepath.Join(t.TempDir(), "bare.json")
	require.NoError(t, os.WriteFile(bare, []byte(`[{"temporaryId":"local-x","attributes":{"name":"X"}}]`), 0o644))
	got, err = ReadSnapshotFile(bare)
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "local-x", got.Records[0].TemporaryID)

	require.NoError(t, os.WriteFile(bare, []byte(`{oops`), 0o644))
	_, err = ReadSnapshotFile(bare)
	assert.ErrorIs(t, err, domain.ErrInputValidation)
}
