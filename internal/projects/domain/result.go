package domain

// Source says which store produced a result.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Status distinguishes fully synced results from local-only fallbacks.
type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusNotFound Status = "not_found"
)

// Result is the tagged outcome of a dual-store operation. Err explains a
// Degraded or NotFound status; it is not a failure of the call itself.
type Result[T any] struct {
	Source Source
	Status Status
	Value  T
	Err    error
}

// Synced reports whether the value came from, or was confirmed by, the remote store.
func (r Result[T]) Synced() bool {
	return r.Source == SourceRemote && r.Status == StatusOK
}

// RemoteOK wraps a value confirmed by the remote store.
func RemoteOK[T any](v T) Result[T] {
	return Result[T]{Source: SourceRemote, Status: StatusOK, Value: v}
}

// LocalOK wraps a value served from the cache where no remote call was needed.
func LocalOK[T any](v T) Result[T] {
	return Result[T]{Source: SourceLocal, Status: StatusOK, Value: v}
}

// Degraded wraps a value that only reflects the local cache.
func Degraded[T any](v T, err error) Result[T] {
	return Result[T]{Source: SourceLocal, Status: StatusDegraded, Value: v, Err: err}
}

// NotFound wraps a lookup miss in both stores.
func NotFound[T any](err error) Result[T] {
	var zero T
	return Result[T]{Source: SourceLocal, Status: StatusNotFound, Value: zero, Err: err}
}
