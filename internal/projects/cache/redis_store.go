package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

const defaultNamespace = "projectsync"

// RedisStore keeps the project collection in a hash keyed by cache key, with
// a sorted set recording insertion order:
//
//	{ns}:projects        hash  cacheKey -> record JSON
//	{ns}:projects:order  zset  cacheKey scored by first insert time
//	{ns}:organizations   string, JSON array
type RedisStore struct {
	client *redis.Client
	ns     string
}

// NewRedisStore wraps an existing client. An empty namespace uses "projectsync".
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &RedisStore{client: client, ns: namespace}
}

func (s *RedisStore) projectsKey() string { return s.ns + ":" + projectsCollection }
func (s *RedisStore) orderKey() string    { return s.ns + ":" + projectsCollection + ":order" }
func (s *RedisStore) orgsKey() string     { return s.ns + ":" + organizationsCollection }

func (s *RedisStore) ReadAll(ctx context.Context) ([]domain.ProjectRecord, error) {
	keys, err := s.client.ZRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, domain.Local("read projects order", err)
	}
	out := make([]domain.ProjectRecord, 0, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := s.client.HMGet(ctx, s.projectsKey(), keys...).Result()
	if err != nil {
		return nil, domain.Local("read projects", err)
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// order entry without data; skip rather than fail the whole read
			continue
		}
		var rec domain.ProjectRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, domain.Local(fmt.Sprintf("decode project %s", keys[i]), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) WriteAll(ctx context.Context, recs []domain.ProjectRecord) error {
	base := float64(time.Now().UnixMicro())
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.projectsKey(), s.orderKey())
		for i, rec := range recs {
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			pipe.HSet(ctx, s.projectsKey(), rec.CacheKey(), data)
			pipe.ZAdd(ctx, s.orderKey(), redis.Z{Score: base + float64(i), Member: rec.CacheKey()})
		}
		return nil
	})
	if err != nil {
		return domain.Local("write projects", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.projectsKey(), s.orderKey()).Err(); err != nil {
		return domain.Local("clear projects", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (*domain.ProjectRecord, error) {
	raw, err := s.client.HGet(ctx, s.projectsKey(), key).Result()
	if errors.Is(err, redis.Nil) {
		// key may be a permanent id of a record indexed by its temporary id
		return s.scan(ctx, key)
	}
	if err != nil {
		return nil, domain.Local("get project", err)
	}
	var rec domain.ProjectRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, domain.Local("decode project", err)
	}
	return &rec, nil
}

func (s *RedisStore) scan(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	recs, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if i := find(recs, id); i >= 0 {
		r := recs[i]
		return &r, nil
	}
	return nil, nil
}

func (s *RedisStore) Put(ctx context.Context, rec domain.ProjectRecord, replaceKey string) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return domain.Local("encode project", err)
	}
	key := rec.CacheKey()
	score := float64(time.Now().UnixMicro())
	if replaceKey != "" && replaceKey != key {
		if old, err := s.client.ZScore(ctx, s.orderKey(), replaceKey).Result(); err == nil {
			score = old
		}
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if replaceKey != "" && replaceKey != key {
			pipe.HDel(ctx, s.projectsKey(), replaceKey)
			pipe.ZRem(ctx, s.orderKey(), replaceKey)
		}
		pipe.HSet(ctx, s.projectsKey(), key, data)
		pipe.ZAddNX(ctx, s.orderKey(), redis.Z{Score: score, Member: key})
		return nil
	})
	if err != nil {
		return domain.Local("put project", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) (bool, error) {
	rec, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}
	ck := rec.CacheKey()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.projectsKey(), ck)
		pipe.ZRem(ctx, s.orderKey(), ck)
		return nil
	})
	if err != nil {
		return false, domain.Local("remove project", err)
	}
	return true, nil
}

func (s *RedisStore) ReadOrganizations(ctx context.Context) ([]domain.Organization, error) {
	raw, err := s.client.Get(ctx, s.orgsKey()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Local("read organizations", err)
	}
	var orgs []domain.Organization
	if err := json.Unmarshal([]byte(raw), &orgs); err != nil {
		return nil, domain.Local("decode organizations", err)
	}
	return orgs, nil
}

func (s *RedisStore) WriteOrganizations(ctx context.Context, orgs []domain.Organization) error {
	data, err := json.Marshal(orgs)
	if err != nil {
		return domain.Local("encode organizations", err)
	}
	if err := s.client.Set(ctx, s.orgsKey(), data, 0).Err(); err != nil {
		return domain.Local("write organizations", err)
	}
	return nil
}

// ClearAll deletes every key under the store's namespace.
func (s *RedisStore) ClearAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.ns+":*", 100).Result()
		if err != nil {
			return domain.Local("scan namespace", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return domain.Local("clear namespace", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return domain.Local("ping redis", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
