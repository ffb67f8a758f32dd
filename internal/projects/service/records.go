package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/classify"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
	"github.com/GoSim-25-26J-441/project-sync/internal/projects/utils"
)

var dateAttributes = []string{"startDate", "endDate"}

// validateAttributes checks the format-constrained fields that are present.
func validateAttributes(attrs map[string]any, requireName bool) error {
	if requireName {
		if s, _ := attrs["name"].(string); s == "" {
			return fmt.Errorf("%w: name required", domain.ErrInputValidation)
		}
	}
	for _, k := range dateAttributes {
		v, ok := attrs[k]
		if !ok {
			continue
		}
		s, isString := v.(string)
		if !isString {
			return fmt.Errorf("%w: %s must be a date string", domain.ErrInputValidation, k)
		}
		if _, ok := parseDate(s); !ok {
			return fmt.Errorf("%w: %s must be RFC3339 or YYYY-MM-DD, got %q", domain.ErrInputValidation, k, s)
		}
	}
	return nil
}

// parseDate accepts RFC3339 or a date-only YYYY-MM-DD value (UTC midnight).
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d.UTC(), true
	}
	return time.Time{}, false
}

// classifyRecord derives the tag from explicit roles, team roles and tech stack.
func classifyRecord(roles []string, members []domain.TeamMember, tech []string) domain.ClassificationTag {
	all := make([]string, 0, len(roles)+len(members))
	all = append(all, roles...)
	all = append(all, domain.MemberRoles(members)...)
	return classify.Classify(all, tech)
}

// buildPatch normalizes an update and re-derives team and classification.
// Classification is only recomputed when the cached record is known, since
// a partial patch alone does not carry every signal.
func buildPatch(in domain.UpdateInput, cached *domain.ProjectRecord) domain.RemotePatch {
	patch := domain.RemotePatch{
		Attributes: utils.Normalize(in.Attributes),
		Roles:      utils.CleanStrings(in.Roles),
		TechStack:  utils.CleanStrings(in.TechStack),
	}
	if in.TeamAssignments != nil {
		patch.TeamMembers = domain.ExpandTeam(in.TeamAssignments)
		patch.AssignedEmails = domain.AssignedEmails(patch.TeamMembers)
	}

	changed := patch.Roles != nil || patch.TechStack != nil || patch.TeamMembers != nil
	if cached != nil && changed {
		roles, tech, members := cached.Roles, cached.TechStack, cached.TeamMembers
		if patch.Roles != nil {
			roles = patch.Roles
		}
		if patch.TechStack != nil {
			tech = patch.TechStack
		}
		if patch.TeamMembers != nil {
			members = patch.TeamMembers
		}
		patch.Classification = classifyRecord(roles, members, tech)
	}
	return patch
}

// applyPatch returns rec with the patch applied. StructuredID is never touched.
func applyPatch(rec domain.ProjectRecord, patch domain.RemotePatch, now time.Time) domain.ProjectRecord {
	out := rec.Clone()
	if out.Attributes == nil {
		out.Attributes = make(map[string]any, len(patch.Attributes))
	}
	for k, v := range patch.Attributes {
		out.Attributes[k] = v
	}
	if patch.Classification != "" {
		out.Classification = patch.Classification
	}
	if patch.Roles != nil {
		out.Roles = patch.Roles
	}
	if patch.TechStack != nil {
		out.TechStack = patch.TechStack
	}
	if patch.TeamMembers != nil {
		out.TeamMembers = patch.TeamMembers
		out.AssignedEmails = patch.AssignedEmails
	}
	out.UpdatedAt = now
	return out
}

// reconcile folds the server-issued id and timestamps into the cached record.
func reconcile(local, remote domain.ProjectRecord) domain.ProjectRecord {
	out := local.Clone()
	out.PermanentID = remote.PermanentID
	if !remote.CreatedAt.IsZero() {
		out.CreatedAt = remote.CreatedAt
	}
	if !remote.UpdatedAt.IsZero() {
		out.UpdatedAt = remote.UpdatedAt
	}
	return out
}

// adoptRemote keeps the remote row but retains the temporary id the cache indexes it by.
func adoptRemote(remote domain.ProjectRecord, temporaryID string) domain.ProjectRecord {
	out := remote.Clone()
	if out.TemporaryID == "" {
		out.TemporaryID = temporaryID
	}
	return out
}

// assignmentsFromMembers regroups expanded members by email, first-seen order.
func assignmentsFromMembers(members []domain.TeamMember) []domain.TeamAssignment {
	idx := make(map[string]int, len(members))
	out := make([]domain.TeamAssignment, 0, len(members))
	for _, m := range members {
		i, ok := idx[m.Email]
		if !ok {
			i = len(out)
			idx[m.Email] = i
			out = append(out, domain.TeamAssignment{Email: m.Email})
		}
		if m.Role != "" {
			out[i].Roles = append(out[i].Roles, m.Role)
		}
	}
	return out
}

func lookupKeys(recs []domain.ProjectRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.LookupKey())
	}
	return out
}
