package domain

import "strings"

// ExpandTeam turns per-person role lists into one member per role, or a single
// roleless member when the person has no roles. Blank emails are skipped.
func ExpandTeam(assignments []TeamAssignment) []TeamMember {
	out := make([]TeamMember, 0, len(assignments))
	for _, a := range assignments {
		email := strings.TrimSpace(a.Email)
		if email == "" {
			continue
		}
		added := false
		for _, r := range a.Roles {
			r = strings.TrimSpace(r)
			if r == "" {
				continue
			}
			out = append(out, TeamMember{Email: email, Role: r})
			added = true
		}
		if !added {
			out = append(out, TeamMember{Email: email})
		}
	}
	return out
}

// AssignedEmails returns the unique member emails in first-seen order.
func AssignedEmails(members []TeamMember) []string {
	seen := make(map[string]struct{}, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		if _, ok := seen[m.Email]; ok {
			continue
		}
		seen[m.Email] = struct{}{}
		out = append(out, m.Email)
	}
	return out
}

// MemberRoles flattens the roles carried by team members, used as a
// classification signal alongside explicit roles.
func MemberRoles(members []TeamMember) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m.Role != "" {
			out = append(out, m.Role)
		}
	}
	return out
}
