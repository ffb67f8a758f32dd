package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

// Snapshot is a portable copy of the merged project collection.
type Snapshot struct {
	ExportedAt time.Time              `json:"exportedAt"`
	Source     domain.Source          `json:"source"`
	Status     domain.Status          `json:"status"`
	Records    []domain.ProjectRecord `json:"records"`
}

// ImportFailure records one snapshot entry that could not be imported.
type ImportFailure struct {
	Index int    `json:"index"`
	Key   string `json:"key,omitempty"`
	Error string `json:"error"`
}

// ImportReport summarizes an import. Imported = Synced + LocalOnly.
type ImportReport struct {
	Imported  int             `json:"imported"`
	Synced    int             `json:"synced"`
	LocalOnly int             `json:"localOnly"`
	Failed    []ImportFailure `json:"failed,omitempty"`
}

// ExportSnapshot captures the merged view, degraded to the cache when the
// remote store is unavailable.
func (s *ProjectService) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	res, err := s.GetAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export snapshot: %w", err)
	}
	return Snapshot{
		ExportedAt: s.now().UTC(),
		Source:     res.Source,
		Status:     res.Status,
		Records:    res.Value,
	}, nil
}

// ImportSnapshot replays records through the normal create path, keeping
// their temporary and structured ids so re-imports are idempotent. Records
// that already carry a permanent id are refreshed from the remote store
// instead of being inserted again.
func (s *ProjectService) ImportSnapshot(ctx context.Context, recs []domain.ProjectRecord) ImportReport {
	var rep ImportReport
	for i, rec := range recs {
		synced, err := s.importOne(ctx, rec)
		if err != nil {
			s.log.Warn("snapshot record skipped", zap.Int("index", i), zap.Error(err))
			rep.Failed = append(rep.Failed, ImportFailure{Index: i, Key: rec.LookupKey(), Error: err.Error()})
			continue
		}
		rep.Imported++
		if synced {
			rep.Synced++
		} else {
			rep.LocalOnly++
		}
	}
	return rep
}

func (s *ProjectService) importOne(ctx context.Context, rec domain.ProjectRecord) (bool, error) {
	if rec.PermanentID != "" {
		remote, err := s.remote.FetchByID(ctx, rec.PermanentID)
		switch {
		case err == nil && remote != nil:
			if perr := s.local.Put(ctx, adoptRemote(*remote, rec.TemporaryID), rec.CacheKey()); perr != nil {
				return false, perr
			}
			return true, nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			// keep the known-synced copy until the remote store is back
			if perr := s.local.Put(ctx, rec, ""); perr != nil {
				return false, perr
			}
			return false, nil
		}
	}

	res, err := s.Create(ctx, domain.CreateInput{
		TemporaryID:     rec.TemporaryID,
		StructuredID:    rec.StructuredID,
		Roles:           rec.Roles,
		TechStack:       rec.TechStack,
		TeamAssignments: assignmentsFromMembers(rec.TeamMembers),
		Attributes:      rec.Attributes,
	})
	if err != nil {
		return false, err
	}
	return res.Synced(), nil
}

// ListOrganizations reads organizations remotely and refreshes the cached
// copy, serving the cached copy when the remote store is unavailable.
func (s *ProjectService) ListOrganizations(ctx context.Context) (domain.Result[[]domain.Organization], error) {
	orgs, err := s.remote.ListOrganizations(ctx)
	if err == nil {
		if orgs == nil {
			orgs = []domain.Organization{}
		}
		if werr := s.local.WriteOrganizations(ctx, orgs); werr != nil {
			s.log.Warn("organization cache not refreshed", zap.Error(werr))
		}
		return domain.RemoteOK(orgs), nil
	}

	rerr := domain.Remote("list organizations", err)
	cached, lerr := s.local.ReadOrganizations(ctx)
	if lerr != nil {
		return domain.Result[[]domain.Organization]{}, fmt.Errorf("list organizations: %w", errors.Join(rerr, lerr))
	}
	if cached == nil {
		cached = []domain.Organization{}
	}
	return domain.Degraded(cached, rerr), nil
}

// ClearCache empties the cached project collection. The remote store is untouched.
func (s *ProjectService) ClearCache(ctx context.Context) error {
	if err := s.local.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	s.log.Info("project cache cleared")
	return nil
}

// ClearAll empties every cached collection. The remote store is untouched.
func (s *ProjectService) ClearAll(ctx context.Context) error {
	if err := s.local.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	s.log.Info("local cache cleared")
	return nil
}

// WriteSnapshotFile writes snap as indented JSON, creating parent directories.
func WriteSnapshotFile(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshotFile reads a snapshot written by WriteSnapshotFile. A bare JSON
// array of records is accepted too.
func ReadSnapshotFile(path string) (Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if len(b) > 0 && b[0] == '[' {
		err = json.Unmarshal(b, &snap.Records)
	} else {
		err = json.Unmarshal(b, &snap)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode snapshot: %v", domain.ErrInputValidation, err)
	}
	return snap, nil
}
