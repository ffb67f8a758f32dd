package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

var projectCols = []string{
	"id", "temporary_id", "structured_id", "classification",
	"roles", "tech_stack", "team_members", "assigned_emails", "attributes",
	"created_at", "updated_at",
}

func setupProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProjectRepository(db), mock, db
}

func projectRow(rows *sqlmock.Rows, id, tmp string, created time.Time) *sqlmock.Rows {
	var temp any
	if tmp != "" {
		temp = tmp
	}
	return rows.AddRow(
		id, temp, "PRJ-AI-0001", "AI",
		`["AI"]`, `["PyTorch"]`,
		`[{"email":"a@x.com","role":"AI"}]`, `["a@x.com"]`,
		`{"name":"Atlas","start_date":"2025-01-02"}`,
		created, created,
	)
}

func TestProjectRepository_Insert(t *testing.T) {
	repo, mock, _ := setupProjectRepo(t)
	now := time.Now().UTC()

	rec := domain.ProjectRecord{
		TemporaryID:    "local-1",
		StructuredID:   "PRJ-AI-0001",
		Classification: domain.TagAI,
		Roles:          []string{"AI"},
		Attributes:     map[string]any{"name": "Atlas", "startDate": "2025-01-02", "scope": ""},
	}

	mock.ExpectQuery(`INSERT INTO projects`).
		WithArgs(
			"local-1", "PRJ-AI-0001", "AI",
			`["AI"]`, `[]`, `[]`, `[]`,
			`{"name":"Atlas","start_date":"2025-01-02"}`,
		).
		WillReturnRows(projectRow(sqlmock.NewRows(projectCols), "p-1", "local-1", now))

	got, err := repo.Insert(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.PermanentID)
	assert.Equal(t, "local-1", got.TemporaryID)
	assert.Equal(t, domain.TagAI, got.Classification)
	assert.Equal(t, []domain.TeamMember{{Email: "a@x.com", Role: "AI"}}, got.TeamMembers)
	assert.Equal(t, "2025-01-02", got.Attributes["startDate"], "remote names are mapped back to cache names")
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_InsertRetryReturnsExisting(t *testing.T) {
	for name, dupErr := range map[string]error{
		"lib/pq": &pq.Error{Code: "23505"},
		"pgx":    &pgconn.PgError{Code: "23505"},
	} {
		t.Run(name, func(t *testing.T) {
			repo, mock, _ := setupProjectRepo(t)
			rec := domain.ProjectRecord{TemporaryID: "local-1", StructuredID: "PRJ-AI-0001", Classification: domain.TagAI}

			mock.ExpectQuery(`INSERT INTO projects`).WillReturnError(dupErr)
			mock.ExpectQuery(`SELECT .+ FROM projects`).
				WithArgs("local-1").
				WillReturnRows(projectRow(sqlmock.NewRows(projectCols), "p-1", "local-1", time.Now()))

			got, err := repo.Insert(context.Background(), rec)
			require.NoError(t, err)
			assert.Equal(t, "p-1", got.PermanentID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProjectRepository_InsertRequiresStructuredID(t *testing.T) {
	repo, _, _ := setupProjectRepo(t)
	_, err := repo.Insert(context.Background(), domain.ProjectRecord{TemporaryID: "local-1"})
	assert.ErrorIs(t, err, domain.ErrInputValidation)
}

func TestProjectRepository_FetchByID(t *testing.T) {
	repo, mock, _ := setupProjectRepo(t)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM projects`).
			WithArgs("p-1").
			WillReturnRows(projectRow(sqlmock.NewRows(projectCols), "p-1", "", time.Now()))

		got, err := repo.FetchByID(context.Background(), "p-1")
		require.NoError(t, err)
		assert.Equal(t, "p-1", got.PermanentID)
		assert.Empty(t, got.TemporaryID)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM projects`).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FetchByID(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_FetchAllOrdered(t *testing.T) {
	repo, mock, _ := setupProjectRepo(t)
	rows := sqlmock.NewRows(projectCols)
	projectRow(rows, "p-2", "", time.Now())
	projectRow(rows, "p-1", "local-1", time.Now().Add(-time.Hour))

	mock.ExpectQuery(`ORDER BY created_at DESC`).WillReturnRows(rows)

	got, err := repo.FetchAllOrdered(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p-2", got[0].PermanentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_FetchAllError(t *testing.T) {
	repo, mock, _ := setupProjectRepo(t)
	mock.ExpectQuery(`SELECT .+ FROM projects`).WillReturnError(errors.New("connection reset"))

	_, err := repo.FetchAll(context.Background())
	assert.Error(t, err)
}

func TestProjectRepository_UpdateByID(t *testing.T) {
	repo, mock, _ := setupProjectRepo(t)

	patch := domain.RemotePatch{
		Classification: domain.TagWebDev,
		TechStack:      []string{"React"},
		Attributes:     map[string]any{"clientName": "Acme", "status": ""},
	}

	mock.ExpectQuery(`UPDATE projects\s+SET updated_at = now\(\), classification = \$2, tech_stack = \$3::jsonb, attributes = attributes \|\| \$4::jsonb`).
		WithArgs("p-1", "WEB_DEV", `["React"]`, `{"client_name":"Acme"}`).
		WillReturnRows(projectRow(sqlmock.NewRows(projectCols), "p-1", "local-1", time.Now()))

	got, err := repo.UpdateByID(context.Background(), "p-1", patch)
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.PermanentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_UpdateMissing(t *testing.T) {
	repo, mock, _ := setupProjectRepo(t)
	mock.ExpectQuery(`UPDATE projects`).WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateByID(context.Background(), "nope", domain.RemotePatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectRepository_DeleteByID(t *testing.T) {
	repo, mock, _ := setupProjectRepo(t)

	mock.ExpectExec(`UPDATE projects\s+SET deleted_at = now\(\)`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteByID(context.Background(), "p-1"))

	mock.ExpectExec(`UPDATE projects\s+SET deleted_at = now\(\)`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteByID(context.Background(), "p-1"), domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_NextSerialNumber(t *testing.T) {
	repo, mock, _ := setupProjectRepo(t)

	mock.ExpectQuery(`INSERT INTO project_serials`).
		WithArgs("AI").
		WillReturnRows(sqlmock.NewRows([]string{"last_serial"}).AddRow(7))

	n, err := repo.NextSerialNumber(context.Background(), domain.TagAI)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_ListOrganizations(t *testing.T) {
	repo, mock, _ := setupProjectRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM organizations`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow("o-1", "Acme", now).
			AddRow("o-2", "Globex", now))

	orgs, err := repo.ListOrganizations(context.Background())
	require.NoError(t, err)
	assert.Len(t, orgs, 2)
	assert.Equal(t, "Acme", orgs[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Migrate(t *testing.T) {
	repo, mock, _ := setupProjectRepo(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS projects`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
