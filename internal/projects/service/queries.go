package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

// Search returns records whose name, description, client, structured id,
// classification, tech stack or team emails contain query (case-insensitive).
// An empty query matches everything.
func (s *ProjectService) Search(ctx context.Context, query string) (domain.Result[[]domain.ProjectRecord], error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return s.filter(ctx, "search", func(r domain.ProjectRecord) bool {
		return q == "" || matchesQuery(r, q)
	})
}

// FilterByStatus keeps records whose status attribute equals status, ignoring case.
func (s *ProjectService) FilterByStatus(ctx context.Context, status string) (domain.Result[[]domain.ProjectRecord], error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return domain.Result[[]domain.ProjectRecord]{}, fmt.Errorf("%w: status required", domain.ErrInputValidation)
	}
	return s.filter(ctx, "filter by status", func(r domain.ProjectRecord) bool {
		return strings.EqualFold(r.Attr("status"), status)
	})
}

// FilterByDateRange keeps records whose startDate falls within [from, to].
// A zero bound is open. Records without a parseable startDate never match.
func (s *ProjectService) FilterByDateRange(ctx context.Context, from, to time.Time) (domain.Result[[]domain.ProjectRecord], error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return domain.Result[[]domain.ProjectRecord]{}, fmt.Errorf("%w: range start after end", domain.ErrInputValidation)
	}
	return s.filter(ctx, "filter by date", func(r domain.ProjectRecord) bool {
		start, ok := parseDate(r.Attr("startDate"))
		if !ok {
			return false
		}
		if !from.IsZero() && start.Before(from) {
			return false
		}
		return to.IsZero() || !start.After(to)
	})
}

// ParseDateBound parses a range bound in the same formats records use.
// An empty string yields the zero time.
func ParseDateBound(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	t, ok := parseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrInputValidation, s)
	}
	return t, nil
}

// filter runs keep over the merged collection. If the merged read fails it
// retries against the raw cache before giving up.
func (s *ProjectService) filter(ctx context.Context, op string, keep func(domain.ProjectRecord) bool) (domain.Result[[]domain.ProjectRecord], error) {
	res, err := s.GetAll(ctx)
	if err == nil {
		res.Value = filterRecords(res.Value, keep)
		return res, nil
	}

	s.log.Warn(op+" falling back to raw cache", zap.Error(err))
	recs, lerr := s.local.ReadAll(ctx)
	if lerr != nil {
		return domain.Result[[]domain.ProjectRecord]{}, fmt.Errorf("%s: %w", op, errors.Join(err, lerr))
	}
	return domain.Degraded(filterRecords(recs, keep), err), nil
}

func filterRecords(recs []domain.ProjectRecord, keep func(domain.ProjectRecord) bool) []domain.ProjectRecord {
	out := make([]domain.ProjectRecord, 0, len(recs))
	for _, r := range recs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

var searchAttributes = []string{"name", "description", "clientName"}

func matchesQuery(r domain.ProjectRecord, q string) bool {
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }
	for _, k := range searchAttributes {
		if contains(r.Attr(k)) {
			return true
		}
	}
	if contains(r.StructuredID) || contains(string(r.Classification)) {
		return true
	}
	for _, t := range r.TechStack {
		if contains(t) {
			return true
		}
	}
	for _, e := range r.AssignedEmails {
		if contains(e) {
			return true
		}
	}
	return false
}
