package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/merge"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/utils"
)

// ProjectService coordinates the remote store and the local cache. Remote
// failures degrade to cached data instead of failing the call.
type ProjectService struct {
	local  LocalStore
	remote RemoteStore
	ids    IDGenerator
	log    *zap.Logger
	now    func() time.Time
}

// Option configures a ProjectService.
type Option func(*ProjectService)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *ProjectService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *ProjectService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewProjectService creates a new project service
func NewProjectService(local LocalStore, remote RemoteStore, ids IDGenerator, opts ...Option) *ProjectService {
	s := &ProjectService{
		local:  local,
		remote: remote,
		ids:    ids,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the local cache.
func (s *ProjectService) Close() error {
	return s.local.Close()
}

// Create writes the record to the cache first, then pushes it to the remote
// store. A remote failure leaves the record LocalOnly and returns Degraded.
func (s *ProjectService) Create(ctx context.Context, in domain.CreateInput) (domain.Result[domain.ProjectRecord], error) {
	rec, err := s.newRecord(ctx, in)
	if err != nil {
		return domain.Result[domain.ProjectRecord]{}, err
	}

	if err := s.local.Put(ctx, rec, ""); err != nil {
		return domain.Result[domain.ProjectRecord]{}, fmt.Errorf("create %s: %w", rec.TemporaryID, domain.Local("cache project", err))
	}
	return s.push(ctx, rec), nil
}

func (s *ProjectService) newRecord(ctx context.Context, in domain.CreateInput) (domain.ProjectRecord, error) {
	attrs := utils.Normalize(in.Attributes)
	if err := validateAttributes(attrs, true); err != nil {
		return domain.ProjectRecord{}, err
	}

	roles := utils.CleanStrings(in.Roles)
	tech := utils.CleanStrings(in.TechStack)
	members := domain.ExpandTeam(in.TeamAssignments)
	tag := classifyRecord(roles, members, tech)

	tmp := strings.TrimSpace(in.TemporaryID)
	if tmp == "" {
		tmp = utils.NewTemporaryID()
	}

	structured := strings.TrimSpace(in.StructuredID)
	if structured == "" {
		id, err := s.ids.Generate(ctx, tag)
		if err != nil {
			return domain.ProjectRecord{}, err
		}
		structured = id.Value
	}

	now := s.now().UTC()
	return domain.ProjectRecord{
		TemporaryID:    tmp,
		Classification: tag,
		StructuredID:   structured,
		Roles:          roles,
		TechStack:      tech,
		TeamMembers:    members,
		AssignedEmails: domain.AssignedEmails(members),
		Attributes:     attrs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// push inserts a cached record remotely and reconciles the cache entry on success.
func (s *ProjectService) push(ctx context.Context, rec domain.ProjectRecord) domain.Result[domain.ProjectRecord] {
	created, err := s.remote.Insert(ctx, rec)
	if err != nil {
		err = domain.Remote("insert project", err)
		s.log.Warn("remote insert failed, record kept local",
			zap.String("temporary_id", rec.TemporaryID), zap.Error(err))
		return domain.Degraded(rec, err)
	}

	merged := reconcile(rec, *created)
	if err := s.local.Put(ctx, merged, rec.CacheKey()); err != nil {
		s.log.Warn("cache reconcile failed",
			zap.String("id", merged.PermanentID), zap.Error(err))
		return domain.Result[domain.ProjectRecord]{
			Source: domain.SourceRemote,
			Status: domain.StatusDegraded,
			Value:  merged,
			Err:    domain.Local("reconcile cache", err),
		}
	}
	return domain.RemoteOK(merged)
}

// GetAll merges the remote collection with cached records not yet synced.
func (s *ProjectService) GetAll(ctx context.Context) (domain.Result[[]domain.ProjectRecord], error) {
	remote, rerr := s.remote.FetchAll(ctx)
	local, lerr := s.local.ReadAll(ctx)

	switch {
	case rerr != nil && lerr != nil:
		return domain.Result[[]domain.ProjectRecord]{}, fmt.Errorf("get all: %w",
			errors.Join(domain.Remote("fetch projects", rerr), lerr))
	case rerr != nil:
		rerr = domain.Remote("fetch projects", rerr)
		s.log.Warn("serving projects from cache", zap.Error(rerr))
		if local == nil {
			local = []domain.ProjectRecord{}
		}
		return domain.Degraded(local, rerr), nil
	case lerr != nil:
		s.log.Warn("cache unreadable, serving remote only", zap.Error(lerr))
		return domain.Result[[]domain.ProjectRecord]{
			Source: domain.SourceRemote,
			Status: domain.StatusDegraded,
			Value:  merge.Records(remote, nil),
			Err:    lerr,
		}, nil
	}
	return domain.RemoteOK(merge.Records(remote, local)), nil
}

// GetAllOrdered returns remote records newest first. It never merges the
// cache; on failure the value is empty and the status Degraded.
func (s *ProjectService) GetAllOrdered(ctx context.Context) domain.Result[[]domain.ProjectRecord] {
	recs, err := s.remote.FetchAllOrdered(ctx)
	if err != nil {
		err = domain.Remote("fetch ordered projects", err)
		s.log.Warn("ordered listing unavailable", zap.Error(err))
		return domain.Result[[]domain.ProjectRecord]{
			Source: domain.SourceRemote,
			Status: domain.StatusDegraded,
			Value:  []domain.ProjectRecord{},
			Err:    err,
		}
	}
	if recs == nil {
		recs = []domain.ProjectRecord{}
	}
	return domain.RemoteOK(recs)
}

// GetByID looks the id up remotely, then in the cache by either identifier.
// A miss in both is a NotFound result carrying the ids that do exist.
func (s *ProjectService) GetByID(ctx context.Context, id string) (domain.Result[domain.ProjectRecord], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Result[domain.ProjectRecord]{}, fmt.Errorf("%w: id required", domain.ErrInputValidation)
	}

	rec, err := s.remote.FetchByID(ctx, id)
	if err == nil && rec != nil {
		return domain.RemoteOK(*rec), nil
	}
	var remoteErr error
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		remoteErr = domain.Remote("fetch project", err)
		s.log.Warn("remote lookup failed, checking cache", zap.String("id", id), zap.Error(remoteErr))
	}

	cached, lerr := s.local.Get(ctx, id)
	if lerr != nil {
		return domain.Result[domain.ProjectRecord]{}, fmt.Errorf("get %s: %w", id, errors.Join(remoteErr, lerr))
	}
	if cached != nil {
		if remoteErr != nil {
			return domain.Degraded(*cached, remoteErr), nil
		}
		return domain.LocalOK(*cached), nil
	}

	nf := &domain.NotFoundError{ID: id, AvailableIDs: s.availableIDs(ctx)}
	if remoteErr != nil {
		return domain.NotFound[domain.ProjectRecord](errors.Join(nf, remoteErr)), nil
	}
	return domain.NotFound[domain.ProjectRecord](nf), nil
}

func (s *ProjectService) availableIDs(ctx context.Context) []string {
	res, err := s.GetAll(ctx)
	if err != nil {
		return nil
	}
	return lookupKeys(res.Value)
}

// Update patches the record remotely and in the cache. A LocalOnly record is
// pushed with a fresh insert instead. StructuredID never changes.
func (s *ProjectService) Update(ctx context.Context, id string, in domain.UpdateInput) (domain.Result[domain.ProjectRecord], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Result[domain.ProjectRecord]{}, fmt.Errorf("%w: id required", domain.ErrInputValidation)
	}
	if err := validateAttributes(utils.Normalize(in.Attributes), false); err != nil {
		return domain.Result[domain.ProjectRecord]{}, err
	}

	cached, lerr := s.local.Get(ctx, id)
	if lerr != nil {
		s.log.Warn("cache lookup failed during update", zap.String("id", id), zap.Error(lerr))
	}
	patch := buildPatch(in, cached)
	now := s.now().UTC()

	if cached != nil && cached.SyncState() == domain.StateLocalOnly {
		res := s.push(ctx, s.patchLocal(ctx, *cached, patch, now))
		if res.Status == domain.StatusDegraded {
			res.Err = &domain.PartialSyncError{Op: "update", ID: id, Cause: res.Err}
		}
		return res, nil
	}

	target := id
	if cached != nil && cached.PermanentID != "" {
		target = cached.PermanentID
	}
	remote, rerr := s.remote.UpdateByID(ctx, target, patch)

	if cached == nil {
		if rerr == nil {
			return domain.RemoteOK(*remote), nil
		}
		nf := &domain.NotFoundError{ID: id}
		if errors.Is(rerr, domain.ErrNotFound) {
			nf.AvailableIDs = s.availableIDs(ctx)
			return domain.NotFound[domain.ProjectRecord](nf), nil
		}
		if lerr != nil {
			return domain.Result[domain.ProjectRecord]{}, fmt.Errorf("update %s: %w", id,
				errors.Join(domain.Remote("update project", rerr), lerr))
		}
		return domain.NotFound[domain.ProjectRecord](errors.Join(nf, domain.Remote("update project", rerr))), nil
	}

	if rerr == nil {
		next := adoptRemote(*remote, cached.TemporaryID)
		if err := s.local.Put(ctx, next, cached.CacheKey()); err != nil {
			return domain.Result[domain.ProjectRecord]{
				Source: domain.SourceRemote,
				Status: domain.StatusDegraded,
				Value:  next,
				Err:    &domain.PartialSyncError{Op: "update", ID: id, Cause: domain.Local("patch cache", err)},
			}, nil
		}
		return domain.RemoteOK(next), nil
	}

	rerr = domain.Remote("update project", rerr)
	next := applyPatch(*cached, patch, now)
	if err := s.local.Put(ctx, next, cached.CacheKey()); err != nil {
		return domain.Result[domain.ProjectRecord]{}, fmt.Errorf("update %s: %w", id,
			errors.Join(rerr, domain.Local("patch cache", err)))
	}
	s.log.Warn("remote update failed, cache patched", zap.String("id", id), zap.Error(rerr))
	return domain.Degraded(next, &domain.PartialSyncError{Op: "update", ID: id, Cause: rerr}), nil
}

// patchLocal applies the patch to the cached record and stores it, logging
// on failure since the following push reconciles the entry again.
func (s *ProjectService) patchLocal(ctx context.Context, rec domain.ProjectRecord, patch domain.RemotePatch, now time.Time) domain.ProjectRecord {
	next := applyPatch(rec, patch, now)
	if err := s.local.Put(ctx, next, rec.CacheKey()); err != nil {
		s.log.Warn("cache patch failed", zap.String("id", rec.CacheKey()), zap.Error(err))
	}
	return next
}

// Delete removes the record remotely (skipped for LocalOnly records) and
// always attempts the cache removal, whatever the remote outcome.
func (s *ProjectService) Delete(ctx context.Context, id string) (domain.Result[bool], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Result[bool]{}, fmt.Errorf("%w: id required", domain.ErrInputValidation)
	}

	cached, err := s.local.Get(ctx, id)
	if err != nil {
		s.log.Warn("cache lookup failed during delete", zap.String("id", id), zap.Error(err))
	}

	localOnly := cached != nil && cached.SyncState() == domain.StateLocalOnly
	var rerr error
	if !localOnly {
		target := id
		if cached != nil && cached.PermanentID != "" {
			target = cached.PermanentID
		}
		rerr = s.remote.DeleteByID(ctx, target)
	}

	removed, lerr := s.local.Remove(ctx, id)

	remoteMissing := errors.Is(rerr, domain.ErrNotFound)
	remoteDown := rerr != nil && !remoteMissing

	switch {
	case lerr != nil && (localOnly || rerr != nil):
		return domain.Result[bool]{}, fmt.Errorf("delete %s: %w", id,
			errors.Join(domain.Remote("delete project", rerr), domain.Local("remove cached project", lerr)))
	case lerr != nil:
		return domain.Result[bool]{
			Source: domain.SourceRemote,
			Status: domain.StatusDegraded,
			Value:  true,
			Err:    &domain.PartialSyncError{Op: "delete", ID: id, Cause: domain.Local("remove cached project", lerr)},
		}, nil
	case remoteDown:
		rerr = domain.Remote("delete project", rerr)
		s.log.Warn("remote delete failed, cache entry removed", zap.String("id", id), zap.Error(rerr))
		return domain.Degraded(removed, &domain.PartialSyncError{Op: "delete", ID: id, Cause: rerr}), nil
	case remoteMissing && !removed:
		return domain.NotFound[bool](&domain.NotFoundError{ID: id, AvailableIDs: s.availableIDs(ctx)}), nil
	case localOnly || remoteMissing:
		return domain.LocalOK(removed), nil
	}
	return domain.RemoteOK(true), nil
}
