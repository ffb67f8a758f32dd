package domain

import (
	"strings"
	"time"
)

// SyncState describes whether a record has reached the remote store.
type SyncState string

const (
	StateLocalOnly SyncState = "local_only"
	StateSynced    SyncState = "synced"
)

// TeamMember is one (email, role) pair. A person with several roles appears
// once per role.
type TeamMember struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// TeamAssignment is the caller-facing shape: one person, many roles.
type TeamAssignment struct {
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
}

// ProjectRecord is a project as held by both the remote store and the local cache.
// Attributes use the cache field naming (camelCase); the remote adapter maps
// them to its own column names.
type ProjectRecord struct {
	PermanentID    string            `json:"permanentId,omitempty"`
	TemporaryID    string            `json:"temporaryId,omitempty"`
	Classification ClassificationTag `json:"classificationTag"`
	StructuredID   string            `json:"structuredIdentifier,omitempty"`
	Roles          []string          `json:"roles,omitempty"`
	TechStack      []string          `json:"techStack,omitempty"`
	TeamMembers    []TeamMember      `json:"teamMembers,omitempty"`
	AssignedEmails []string          `json:"assignedEmails,omitempty"`
	Attributes     map[string]any    `json:"attributes,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// SyncState reports LocalOnly until the remote store has issued a permanent id.
func (p ProjectRecord) SyncState() SyncState {
	if p.PermanentID == "" {
		return StateLocalOnly
	}
	return StateSynced
}

// LookupKey is the authoritative id: the permanent id once confirmed,
// the temporary id before.
func (p ProjectRecord) LookupKey() string {
	if p.PermanentID != "" {
		return p.PermanentID
	}
	return p.TemporaryID
}

// CacheKey indexes the record in the local cache. The temporary id is kept
// after confirmation so the cached entry can be reconciled in place.
func (p ProjectRecord) CacheKey() string {
	if p.TemporaryID != "" {
		return p.TemporaryID
	}
	return p.PermanentID
}

// Matches reports whether id refers to this record by either identifier.
func (p ProjectRecord) Matches(id string) bool {
	if id == "" {
		return false
	}
	return p.PermanentID == id || p.TemporaryID == id
}

// SharesKey reports whether the two records share a non-empty permanent or temporary id.
func (p ProjectRecord) SharesKey(o ProjectRecord) bool {
	for _, a := range []string{p.PermanentID, p.TemporaryID} {
		if a == "" {
			continue
		}
		if a == o.PermanentID || a == o.TemporaryID {
			return true
		}
	}
	return false
}

// Attr returns the attribute as a trimmed string, or "" when absent or not a string.
func (p ProjectRecord) Attr(key string) string {
	if p.Attributes == nil {
		return ""
	}
	s, ok := p.Attributes[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Clone returns a copy that does not share slices or the attribute map.
func (p ProjectRecord) Clone() ProjectRecord {
	out := p
	out.Roles = append([]string(nil), p.Roles...)
	out.TechStack = append([]string(nil), p.TechStack...)
	out.TeamMembers = append([]TeamMember(nil), p.TeamMembers...)
	out.AssignedEmails = append([]string(nil), p.AssignedEmails...)
	if p.Attributes != nil {
		out.Attributes = make(map[string]any, len(p.Attributes))
		for k, v := range p.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

// Organization is listed from the remote store and cached for offline use.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateInput carries everything a caller may supply on create.
// TemporaryID and StructuredID are honoured when present (snapshot import).
type CreateInput struct {
	TemporaryID     string           `json:"temporaryId,omitempty"`
	StructuredID    string           `json:"structuredIdentifier,omitempty"`
	Roles           []string         `json:"roles,omitempty"`
	TechStack       []string         `json:"techStack,omitempty"`
	TeamAssignments []TeamAssignment `json:"teamAssignments,omitempty"`
	Attributes      map[string]any   `json:"attributes,omitempty"`
}

// UpdateInput is a partial patch. Nil slices mean "unchanged".
type UpdateInput struct {
	Roles           []string         `json:"roles,omitempty"`
	TechStack       []string         `json:"techStack,omitempty"`
	TeamAssignments []TeamAssignment `json:"teamAssignments,omitempty"`
	Attributes      map[string]any   `json:"attributes,omitempty"`
}

// RemotePatch is what the remote store applies on update.
type RemotePatch struct {
	Classification ClassificationTag
	Roles          []string
	TechStack      []string
	TeamMembers    []TeamMember
	AssignedEmails []string
	Attributes     map[string]any
}
