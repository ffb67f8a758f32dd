package service

import (
	"context"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/identifier"
)

// LocalStore is the on-device cache of the project collection. The
// coordinator writes single records through Put and Remove and never calls
// WriteAll; it is the whole-collection half of the contract, kept for tools
// that restore the cache as a unit.
type LocalStore interface {
	ReadAll(ctx context.Context) ([]domain.ProjectRecord, error)
	WriteAll(ctx context.Context, recs []domain.ProjectRecord) error
	Clear(ctx context.Context) error
	Get(ctx context.Context, key string) (*domain.ProjectRecord, error)
	Put(ctx context.Context, rec domain.ProjectRecord, replaceKey string) error
	Remove(ctx context.Context, key string) (bool, error)
	ReadOrganizations(ctx context.Context) ([]domain.Organization, error)
	WriteOrganizations(ctx context.Context, orgs []domain.Organization) error
	ClearAll(ctx context.Context) error
	Close() error
}

// RemoteStore is the authoritative store.
type RemoteStore interface {
	FetchAll(ctx context.Context) ([]domain.ProjectRecord, error)
	FetchAllOrdered(ctx context.Context) ([]domain.ProjectRecord, error)
	FetchByID(ctx context.Context, id string) (*domain.ProjectRecord, error)
	Insert(ctx context.Context, rec domain.ProjectRecord) (*domain.ProjectRecord, error)
	UpdateByID(ctx context.Context, id string, patch domain.RemotePatch) (*domain.ProjectRecord, error)
	DeleteByID(ctx context.Context, id string) error
	NextSerialNumber(ctx context.Context, tag domain.ClassificationTag) (int, error)
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
}

// IDGenerator allocates structured identifiers.
type IDGenerator interface {
	Generate(ctx context.Context, tag domain.ClassificationTag) (identifier.Identifier, error)
}
