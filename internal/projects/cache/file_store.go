package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

// FileStore persists each collection as a JSON document under Dir.
// Writes go through a temp file and rename so a crash never leaves a torn file.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates dir if needed and initialises an empty collection.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: cache dir required", domain.ErrInputValidation)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.Local("create cache dir", err)
	}
	s := &FileStore{dir: dir}
	if _, err := os.Stat(s.path(projectsCollection)); errors.Is(err, fs.ErrNotExist) {
		if err := s.save(projectsCollection, []domain.ProjectRecord{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *FileStore) ReadAll(ctx context.Context) ([]domain.ProjectRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadProjects()
}

func (s *FileStore) WriteAll(ctx context.Context, recs []domain.ProjectRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if recs == nil {
		recs = []domain.ProjectRecord{}
	}
	return s.save(projectsCollection, recs)
}

func (s *FileStore) Clear(ctx context.Context) error {
	return s.WriteAll(ctx, nil)
}

func (s *FileStore) Get(ctx context.Context, key string) (*domain.ProjectRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.loadProjects()
	if err != nil {
		return nil, err
	}
	if i := find(recs, key); i >= 0 {
		r := recs[i]
		return &r, nil
	}
	return nil, nil
}

func (s *FileStore) Put(ctx context.Context, rec domain.ProjectRecord, replaceKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.loadProjects()
	if err != nil {
		return err
	}
	return s.save(projectsCollection, upsert(recs, rec, replaceKey))
}

func (s *FileStore) Remove(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.loadProjects()
	if err != nil {
		return false, err
	}
	i := find(recs, key)
	if i < 0 {
		return false, nil
	}
	recs = append(recs[:i], recs[i+1:]...)
	return true, s.save(projectsCollection, recs)
}

func (s *FileStore) ReadOrganizations(ctx context.Context) ([]domain.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var orgs []domain.Organization
	if err := s.load(organizationsCollection, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

func (s *FileStore) WriteOrganizations(ctx context.Context, orgs []domain.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(organizationsCollection, orgs)
}

// ClearAll removes every collection file in the cache directory.
func (s *FileStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range []string{projectsCollection, organizationsCollection} {
		if err := os.Remove(s.path(c)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return domain.Local("clear "+c, err)
		}
	}
	return s.save(projectsCollection, []domain.ProjectRecord{})
}

func (s *FileStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return domain.Local("stat cache dir", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *FileStore) loadProjects() ([]domain.ProjectRecord, error) {
	recs := []domain.ProjectRecord{}
	if err := s.load(projectsCollection, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *FileStore) load(collection string, v any) error {
	b, err := os.ReadFile(s.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return domain.Local("read "+collection, err)
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return domain.Local("decode "+collection, err)
	}
	return nil
}

func (s *FileStore) save(collection string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return domain.Local("encode "+collection, err)
	}
	tmp, err := os.CreateTemp(s.dir, collection+".*.tmp")
	if err != nil {
		return domain.Local("write "+collection, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return domain.Local("write "+collection, err)
	}
	if err := tmp.Close(); err != nil {
		return domain.Local("write "+collection, err)
	}
	if err := os.Rename(tmp.Name(), s.path(collection)); err != nil {
		return domain.Local("write "+collection, err)
	}
	return nil
}
