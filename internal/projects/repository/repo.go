package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/utils"
)

//go:embed schema.sql
var schemaSQL string

const projectColumns = `id::text, temporary_id, structured_id, classification,
       roles, tech_stack, team_members, assigned_emails, attributes,
       created_at, updated_at`

// ProjectRepository is the authoritative remote store backed by PostgreSQL.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Migrate applies the embedded schema. Statements are idempotent.
func (r *ProjectRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (r *ProjectRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// FetchAll returns every live project in no particular order.
func (r *ProjectRepository) FetchAll(ctx context.Context) ([]domain.ProjectRecord, error) {
	return r.query(ctx, `SELECT `+projectColumns+` FROM projects WHERE deleted_at IS NULL;`)
}

// FetchAllOrdered returns every live project, newest first.
func (r *ProjectRepository) FetchAllOrdered(ctx context.Context) ([]domain.ProjectRecord, error) {
	return r.query(ctx, `SELECT `+projectColumns+` FROM projects WHERE deleted_at IS NULL ORDER BY created_at DESC, id;`)
}

// FetchByID looks a project up by permanent or temporary id.
func (r *ProjectRepository) FetchByID(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
WHERE deleted_at IS NULL AND (id::text = $1 OR temporary_id = $1)
LIMIT 1;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Insert stores a new project and returns it with the server-issued id and
// timestamps. Re-sending a record whose temporary id already exists returns
// the stored row, so a retry after a lost response does not duplicate it.
func (r *ProjectRepository) Insert(ctx context.Context, rec domain.ProjectRecord) (*domain.ProjectRecord, error) {
	if rec.StructuredID == "" {
		return nil, fmt.Errorf("%w: structured id required", domain.ErrInputValidation)
	}

	const q = `
INSERT INTO projects (temporary_id, structured_id, classification, roles, tech_stack,
                      team_members, assigned_emails, attributes)
VALUES (NULLIF($1, ''), $2, $3, $4::jsonb, $5::jsonb, $6::jsonb, $7::jsonb, $8::jsonb)
RETURNING ` + projectColumns + `;
`
	args, err := encodeRecord(rec)
	if err != nil {
		return nil, err
	}
	p, err := scanProject(r.db.QueryRowContext(ctx, q, args...))
	if err == nil {
		return p, nil
	}

	// unique violation on temporary_id → the record is already there
	if isUniqueViolation(err) && rec.TemporaryID != "" {
		return r.FetchByID(ctx, rec.TemporaryID)
	}
	return nil, err
}

// UpdateByID applies a partial patch. Attributes are merged key by key;
// list fields are replaced only when present in the patch.
func (r *ProjectRepository) UpdateByID(ctx context.Context, id string, patch domain.RemotePatch) (*domain.ProjectRecord, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	add := func(expr string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}

	if patch.Classification != "" {
		add("classification = $%d", string(patch.Classification))
	}
	for _, f := range []struct {
		col string
		val any
		set bool
	}{
		{"roles", patch.Roles, patch.Roles != nil},
		{"tech_stack", patch.TechStack, patch.TechStack != nil},
		{"team_members", patch.TeamMembers, patch.TeamMembers != nil},
		{"assigned_emails", patch.AssignedEmails, patch.AssignedEmails != nil},
	} {
		if !f.set {
			continue
		}
		b, err := json.Marshal(f.val)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.col, err)
		}
		add(f.col+" = $%d::jsonb", string(b))
	}
	if attrs := utils.ToRemote(patch.Attributes); len(attrs) > 0 {
		b, err := json.Marshal(attrs)
		if err != nil {
			return nil, fmt.Errorf("encode attributes: %w", err)
		}
		add("attributes = attributes || $%d::jsonb", string(b))
	}

	q := `
UPDATE projects
SET ` + strings.Join(sets, ", ") + `
WHERE deleted_at IS NULL AND (id::text = $1 OR temporary_id = $1)
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// DeleteByID soft-deletes a project.
func (r *ProjectRepository) DeleteByID(ctx context.Context, id string) error {
	const q = `
UPDATE projects
SET deleted_at = now(), updated_at = now()
WHERE deleted_at IS NULL AND (id::text = $1 OR temporary_id = $1);
`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextSerialNumber atomically increments and returns the classification's counter.
func (r *ProjectRepository) NextSerialNumber(ctx context.Context, tag domain.ClassificationTag) (int, error) {
	const q = `
INSERT INTO project_serials (classification, last_serial)
VALUES ($1, 1)
ON CONFLICT (classification) DO UPDATE SET last_serial = project_serials.last_serial + 1
RETURNING last_serial;
`
	var n int
	if err := r.db.QueryRowContext(ctx, q, string(tag)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListOrganizations returns all organizations by name.
func (r *ProjectRepository) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id::text, name, created_at FROM organizations ORDER BY name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Organization, 0, 8)
	for rows.Next() {
		var o domain.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProjectRepository) query(ctx context.Context, q string) ([]domain.ProjectRecord, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ProjectRecord, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*domain.ProjectRecord, error) {
	var (
		p                                       domain.ProjectRecord
		tempID                                  sql.NullString
		class                                   string
		roles, tech, members, emails, attrsJSON []byte
	)
	if err := row.Scan(&p.PermanentID, &tempID, &p.StructuredID, &class,
		&roles, &tech, &members, &emails, &attrsJSON,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.TemporaryID = tempID.String
	p.Classification = domain.ClassificationTag(class)

	var attrs map[string]any
	for _, f := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"roles", roles, &p.Roles},
		{"tech_stack", tech, &p.TechStack},
		{"team_members", members, &p.TeamMembers},
		{"assigned_emails", emails, &p.AssignedEmails},
		{"attributes", attrsJSON, &attrs},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
	}
	p.Attributes = utils.ToLocal(attrs)
	return &p, nil
}

func encodeRecord(rec domain.ProjectRecord) ([]any, error) {
	args := []any{rec.TemporaryID, rec.StructuredID, string(rec.Classification)}
	for _, v := range []any{
		nonNil(rec.Roles),
		nonNil(rec.TechStack),
		nonNilMembers(rec.TeamMembers),
		nonNil(rec.AssignedEmails),
		utils.ToRemote(rec.Attributes),
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode project: %w", err)
		}
		args = append(args, string(b))
	}
	return args, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMembers(m []domain.TeamMember) []domain.TeamMember {
	if m == nil {
		return []domain.TeamMember{}
	}
	return m
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
