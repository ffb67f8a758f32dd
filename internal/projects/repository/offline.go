package repository

import (
	"context"
	"errors"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

// Offline stands in for the remote store when it could not be reached at
// startup. Every call fails with ErrRemoteUnavailable, so the service runs
// against the cache alone.
type Offline struct {
	err error
}

func NewOffline(cause error) *Offline {
	if cause == nil {
		cause = errors.New("remote store offline")
	}
	return &Offline{err: cause}
}

func (o *Offline) fail(op string) error { return domain.Remote(op, o.err) }

func (o *Offline) FetchAll(context.Context) ([]domain.ProjectRecord, error) {
	return nil, o.fail("fetch projects")
}

func (o *Offline) FetchAllOrdered(context.Context) ([]domain.ProjectRecord, error) {
	return nil, o.fail("fetch ordered projects")
}

func (o *Offline) FetchByID(context.Context, string) (*domain.ProjectRecord, error) {
	return nil, o.fail("fetch project")
}

func (o *Offline) Insert(context.Context, domain.ProjectRecord) (*domain.ProjectRecord, error) {
	return nil, o.fail("insert project")
}

func (o *Offline) UpdateByID(context.Context, string, domain.RemotePatch) (*domain.ProjectRecord, error) {
	return nil, o.fail("update project")
}

func (o *Offline) DeleteByID(context.Context, string) error {
	return o.fail("delete project")
}

func (o *Offline) NextSerialNumber(context.Context, domain.ClassificationTag) (int, error) {
	return 0, o.fail("next serial")
}

func (o *Offline) ListOrganizations(context.Context) ([]domain.Organization, error) {
	return nil, o.fail("list organizations")
}

func (o *Offline) Ping(context.Context) error {
	return o.fail("ping")
}
