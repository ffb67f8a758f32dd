// Package cache keeps the on-device copy of the project collection.
//
// Both stores expose the whole-collection contract (ReadAll / WriteAll /
// Clear) plus indexed single-record primitives keyed by
// ProjectRecord.CacheKey, so one record can change without rewriting,
// and possibly clobbering, the rest of the collection.
package cache

import (
	"slices"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

const (
	projectsCollection      = "projects"
	organizationsCollection = "organizations"
)

// upsert replaces the entry under rec's own key or replaceKey in place, or
// appends rec when neither is present. Any other entry holding either key is
// dropped so the collection keeps one entry per record.
func upsert(recs []domain.ProjectRecord, rec domain.ProjectRecord, replaceKey string) []domain.ProjectRecord {
	key := rec.CacheKey()
	for i := range recs {
		k := recs[i].CacheKey()
		if k == key || (replaceKey != "" && k == replaceKey) {
			recs[i] = rec
			if replaceKey == "" {
				return dropKeys(recs, i, key)
			}
			return dropKeys(recs, i, key, replaceKey)
		}
	}
	return append(recs, rec)
}

// dropKeys removes every entry other than index keep whose key is in keys.
func dropKeys(recs []domain.ProjectRecord, keep int, keys ...string) []domain.ProjectRecord {
	out := recs[:0]
	for i, r := range recs {
		if i != keep && slices.Contains(keys, r.CacheKey()) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func find(recs []domain.ProjectRecord, key string) int {
	for i := range recs {
		if recs[i].CacheKey() == key || recs[i].Matches(key) {
			return i
		}
	}
	return -1
}
