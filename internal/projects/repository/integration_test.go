package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/project-sync/config"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/cache"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/identifier"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/repository"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/service"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/utils"
	"github.com/GoSim-25-26J-441/project-sync/internal/storage/postgres"
)

// setupTestPostgres connects with the given driver and applies the schema.
// Skips unless TEST_DB_DSN is set.
func setupTestPostgres(t *testing.T, driver string) *repository.ProjectRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	conn, err := postgres.NewConnection(context.Background(), &config.DatabaseConfig{DSN: dsn, Driver: driver})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	repo := repository.NewProjectRepository(conn.DB)
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestIntegration_SyncAgainstPostgres(t *testing.T) {
	for _, driver := range []string{config.DriverPostgres, config.DriverPgx} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			repo := setupTestPostgres(t, driver)

			mr := miniredis.RunT(t)
			local := cache.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "it")
			gen := identifier.NewGenerator(repo, local, "IT", 4, nil)
			svc := service.NewProjectService(local, repo, gen)

			tmp := utils.NewTemporaryID()
			created, err := svc.Create(ctx, domain.CreateInput{
				TemporaryID: tmp,
				TechStack:   []string{"Kubernetes"},
				TeamAssignments: []domain.TeamAssignment{
					{Email: "ops@example.com", Roles: []string{"SRE", "Reviewer"}},
				},
				Attributes: map[string]any{"name": "Cluster", "clientName": "Acme", "startDate": "2025-02-01"},
			})
			require.NoError(t, err)
			require.True(t, created.Synced(), "%v", created.Err)
			id := created.Value.PermanentID
			assert.Equal(t, domain.TagDevOps, created.Value.Classification)

			// inserting the same temporary id again returns the existing row
			again, err := repo.Insert(ctx, created.Value)
			require.NoError(t, err)
			assert.Equal(t, id, again.PermanentID)

			got, err := svc.GetByID(ctx, id)
			require.NoError(t, err)
			require.True(t, got.Synced())
			assert.Equal(t, "Acme", got.Value.Attr("clientName"))
			assert.Len(t, got.Value.TeamMembers, 2)

			updated, err := svc.Update(ctx, id, domain.UpdateInput{Attributes: map[string]any{"status": "active"}})
			require.NoError(t, err)
			require.True(t, updated.Synced())
			assert.Equal(t, "active", updated.Value.Attr("status"))
			assert.Equal(t, "Cluster", updated.Value.Attr("name"))
			assert.Equal(t, created.Value.StructuredID, updated.Value.StructuredID)

			first, err := repo.NextSerialNumber(ctx, domain.TagOther)
			require.NoError(t, err)
			second, err := repo.NextSerialNumber(ctx, domain.TagOther)
			require.NoError(t, err)
			assert.Equal(t, first+1, second)

			deleted, err := svc.Delete(ctx, id)
			require.NoError(t, err)
			assert.True(t, deleted.Synced())

			_, err = repo.FetchByID(ctx, id)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}
