package repository

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

// Store is the remote-store method set shared by ProjectRepository and Limited.
type Store interface {
	FetchAll(ctx context.Context) ([]domain.ProjectRecord, error)
	FetchAllOrdered(ctx context.Context) ([]domain.ProjectRecord, error)
	FetchByID(ctx context.Context, id string) (*domain.ProjectRecord, error)
	Insert(ctx context.Context, rec domain.ProjectRecord) (*domain.ProjectRecord, error)
	UpdateByID(ctx context.Context, id string, patch domain.RemotePatch) (*domain.ProjectRecord, error)
	DeleteByID(ctx context.Context, id string) error
	NextSerialNumber(ctx context.Context, tag domain.ClassificationTag) (int, error)
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
	Ping(ctx context.Context) error
}

// LimitConfig bounds outbound traffic to the remote store.
type LimitConfig struct {
	RateLimit rate.Limit    // requests per second; 0 disables throttling
	BurstSize int
	Timeout   time.Duration // per call; 0 leaves the caller's deadline alone
}

// Limited throttles and time-boxes every call to the wrapped store.
type Limited struct {
	next    Store
	limiter *rate.Limiter
	timeout time.Duration
}

// NewLimited wraps next. A zero RateLimit means unlimited.
func NewLimited(next Store, cfg LimitConfig) *Limited {
	l := &Limited{next: next, timeout: cfg.Timeout}
	if cfg.RateLimit > 0 {
		burst := cfg.BurstSize
		if burst <= 0 {
			burst = 1
		}
		l.limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}
	return l
}

func (l *Limited) begin(ctx context.Context) (context.Context, context.CancelFunc, error) {
	cancel := context.CancelFunc(func() {})
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
	}
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			cancel()
			return nil, nil, err
		}
	}
	return ctx, cancel, nil
}

func (l *Limited) FetchAll(ctx context.Context) ([]domain.ProjectRecord, error) {
	ctx, cancel, err := l.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return l.next.FetchAll(ctx)
}

func (l *Limited) FetchAllOrdered(ctx context.Context) ([]domain.ProjectRecord, error) {
	ctx, cancel, err := l.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return l.next.FetchAllOrdered(ctx)
}

func (l *Limited) FetchByID(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	ctx, cancel, err := l.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return l.next.FetchByID(ctx, id)
}

func (l *Limited) Insert(ctx context.Context, rec domain.ProjectRecord) (*domain.ProjectRecord, error) {
	ctx, cancel, err := l.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return l.next.Insert(ctx, rec)
}

func (l *Limited) UpdateByID(ctx context.Context, id string, patch domain.RemotePatch) (*domain.ProjectRecord, error) {
	ctx, cancel, err := l.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return l.next.UpdateByID(ctx, id, patch)
}

func (l *Limited) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel, err := l.begin(ctx)
	if err != nil {
		return err
	}
	defer cancel()
	return l.next.DeleteByID(ctx, id)
}

func (l *Limited) NextSerialNumber(ctx context.Context, tag domain.ClassificationTag) (int, error) {
	ctx, cancel, err := l.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer cancel()
	return l.next.NextSerialNumber(ctx, tag)
}

func (l *Limited) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	ctx, cancel, err := l.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	return l.next.ListOrganizations(ctx)
}

func (l *Limited) Ping(ctx context.Context) error {
	ctx, cancel, err := l.begin(ctx)
	if err != nil {
		return err
	}
	defer cancel()
	return l.next.Ping(ctx)
}
