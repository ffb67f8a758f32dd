package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInputValidation   = errors.New("invalid input")
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	ErrNotFound          = errors.New("project not found")
	ErrLocalStorage      = errors.New("local cache failure")
	ErrPartialSync       = errors.New("partial sync")
)

// NotFoundError is returned when neither store knows the id. AvailableIDs
// lists the lookup keys present in the local cache to aid diagnosis.
type NotFoundError struct {
	ID           string
	AvailableIDs []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("project %q not found (local ids: %s)", e.ID, strings.Join(e.AvailableIDs, ", "))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PartialSyncError marks a mutation that landed in one store only.
type PartialSyncError struct {
	Op    string
	ID    string
	Cause error
}

func (e *PartialSyncError) Error() string {
	return fmt.Sprintf("%s %s applied locally only: %v", e.Op, e.ID, e.Cause)
}

func (e *PartialSyncError) Is(target error) bool { return target == ErrPartialSync }

func (e *PartialSyncError) Unwrap() error { return e.Cause }

// Remote wraps a remote-store failure so callers can test for ErrRemoteUnavailable.
// ErrNotFound passes through untouched.
func Remote(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrRemoteUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrRemoteUnavailable, err)
}

// Local wraps a cache failure as ErrLocalStorage.
func Local(op string, err error) error {
	if err == nil || errors.Is(err, ErrLocalStorage) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrLocalStorage, err)
}
