// Package identifier allocates structured, human-readable project ids.
package identifier

import (
	"context"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

// SerialAllocator hands out the next serial number for a classification.
type SerialAllocator interface {
	Next(ctx context.Context, tag domain.ClassificationTag) (int, error)
}

// CounterSource is the remote counter service.
type CounterSource interface {
	NextSerialNumber(ctx context.Context, tag domain.ClassificationTag) (int, error)
}

// RecordCounter reports how many records the local cache holds.
type RecordCounter interface {
	ReadAll(ctx context.Context) ([]domain.ProjectRecord, error)
}

// RemoteAllocator draws serials from the remote counter, which increments atomically.
type RemoteAllocator struct {
	Source CounterSource
}

func (a RemoteAllocator) Next(ctx context.Context, tag domain.ClassificationTag) (int, error) {
	n, err := a.Source.NextSerialNumber(ctx, tag)
	if err != nil {
		return 0, domain.Remote("next serial", err)
	}
	return n, nil
}

// LocalAllocator returns the number of cached records plus one.
//
// It is best effort only. Two callers that fall back at the same time, in
// this process or another one sharing the remote store, can read the same
// count and produce the same serial and therefore the same structured id.
// Nothing here prevents that; the remote counter is the only atomic source.
type LocalAllocator struct {
	Cache RecordCounter
}

func (a LocalAllocator) Next(ctx context.Context, _ domain.ClassificationTag) (int, error) {
	recs, err := a.Cache.ReadAll(ctx)
	if err != nil {
		return 0, domain.Local("count cached records", err)
	}
	return len(recs) + 1, nil
}
