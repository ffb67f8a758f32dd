// Package servicetest provides an in-memory remote store for tests.
package servicetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

// ErrConnRefused is returned by every call while the remote is down.
var ErrConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

// Remote is an in-memory remote store that can be switched offline.
// Inserts are idempotent on the temporary id and assign ids p-1, p-2, ...
type Remote struct {
	mu      sync.Mutex
	down    bool
	recs    []domain.ProjectRecord
	serials map[domain.ClassificationTag]int
	orgs    []domain.Organization
	nextID  int
	calls   map[string]int
}

// NewRemote returns an empty, online remote.
func NewRemote() *Remote {
	return &Remote{
		serials: map[domain.ClassificationTag]int{},
		calls:   map[string]int{},
	}
}

// SetDown switches the remote offline or back online.
func (f *Remote) SetDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

// CallCount reports how often op was attempted, online or not.
func (f *Remote) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Records returns a copy of the stored records in insertion order.
func (f *Remote) Records() []domain.ProjectRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneAll(f.recs)
}

func (f *Remote) enter(op string) error {
	f.mu.Lock()
	f.calls[op]++
	if f.down {
		f.mu.Unlock()
		return ErrConnRefused
	}
	return nil
}

func (f *Remote) index(id string) int {
	for i := range f.recs {
		if f.recs[i].Matches(id) {
			return i
		}
	}
	return -1
}

func (f *Remote) FetchAll(ctx context.Context) ([]domain.ProjectRecord, error) {
	if err := f.enter("fetch_all"); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	return cloneAll(f.recs), nil
}

func (f *Remote) FetchAllOrdered(ctx context.Context) ([]domain.ProjectRecord, error) {
	if err := f.enter("fetch_ordered"); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	out := make([]domain.ProjectRecord, 0, len(f.recs))
	for i := len(f.recs) - 1; i >= 0; i-- {
		out = append(out, f.recs[i].Clone())
	}
	return out, nil
}

func (f *Remote) FetchByID(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	if err := f.enter("fetch_by_id"); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	r := f.recs[i].Clone()
	return &r, nil
}

func (f *Remote) Insert(ctx context.Context, rec domain.ProjectRecord) (*domain.ProjectRecord, error) {
	if err := f.enter("insert"); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	if rec.TemporaryID != "" {
		if i := f.index(rec.TemporaryID); i >= 0 {
			r := f.recs[i].Clone()
			return &r, nil
		}
	}
	f.nextID++
	r := rec.Clone()
	r.PermanentID = fmt.Sprintf("p-%d", f.nextID)
	r.CreatedAt = time.Date(2025, 1, 1, 0, 0, f.nextID, 0, time.UTC)
	r.UpdatedAt = r.CreatedAt
	f.recs = append(f.recs, r)
	out := r.Clone()
	return &out, nil
}

func (f *Remote) UpdateByID(ctx context.Context, id string, patch domain.RemotePatch) (*domain.ProjectRecord, error) {
	if err := f.enter("update"); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	f.recs[i] = patched(f.recs[i], patch)
	r := f.recs[i].Clone()
	return &r, nil
}

func (f *Remote) DeleteByID(ctx context.Context, id string) error {
	if err := f.enter("delete"); err != nil {
		return err
	}
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	f.recs = append(f.recs[:i], f.recs[i+1:]...)
	return nil
}

func (f *Remote) NextSerialNumber(ctx context.Context, tag domain.ClassificationTag) (int, error) {
	if err := f.enter("next_serial"); err != nil {
		return 0, err
	}
	defer f.mu.Unlock()
	f.serials[tag]++
	return f.serials[tag], nil
}

func (f *Remote) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	if err := f.enter("list_orgs"); err != nil {
		return nil, err
	}
	defer f.mu.Unlock()
	return append([]domain.Organization(nil), f.orgs...), nil
}

// SetOrganizations replaces the organization list.
func (f *Remote) SetOrganizations(orgs ...domain.Organization) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orgs = orgs
}

func patched(rec domain.ProjectRecord, p domain.RemotePatch) domain.ProjectRecord {
	out := rec.Clone()
	if out.Attributes == nil {
		out.Attributes = map[string]any{}
	}
	for k, v := range p.Attributes {
		out.Attributes[k] = v
	}
	if p.Classification != "" {
		out.Classification = p.Classification
	}
	if p.Roles != nil {
		out.Roles = p.Roles
	}
	if p.TechStack != nil {
		out.TechStack = p.TechStack
	}
	if p.TeamMembers != nil {
		out.TeamMembers = p.TeamMembers
		out.AssignedEmails = p.AssignedEmails
	}
	out.UpdatedAt = out.UpdatedAt.Add(time.Hour)
	return out
}

func cloneAll(recs []domain.ProjectRecord) []domain.ProjectRecord {
	out := make([]domain.ProjectRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Clone())
	}
	return out
}
