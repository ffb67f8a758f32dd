// Package merge combines the remote and local views of the project collection.
package merge

import "github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"

// Records returns remote followed by every local record that shares no
// permanent or temporary id with a remote one. Remote wins on collision;
// local-only records are kept verbatim. An empty remote set yields local.
func Records(remote, local []domain.ProjectRecord) []domain.ProjectRecord {
	if len(remote) == 0 {
		return local
	}

	keys := make(map[string]struct{}, 2*len(remote))
	for _, r := range remote {
		if r.PermanentID != "" {
			keys[r.PermanentID] = struct{}{}
		}
		if r.TemporaryID != "" {
			keys[r.TemporaryID] = struct{}{}
		}
	}

	out := make([]domain.ProjectRecord, 0, len(remote)+len(local))
	out = append(out, remote...)
	for _, l := range local {
		if known(keys, l.PermanentID) || known(keys, l.TemporaryID) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func known(keys map[string]struct{}, id string) bool {
	if id == "" {
		return false
	}
	_, ok := keys[id]
	return ok
}
