package utils

import (
	"strings"

	"github.com/google/uuid"
)

// TemporaryIDPrefix marks ids minted on this device before the remote store confirms a record.
const TemporaryIDPrefix = "local-"

// NewTemporaryID returns a locally unique id, e.g. "local-3f0c...".
func NewTemporaryID() string {
	return TemporaryIDPrefix + uuid.NewString()
}

// NewRequestID returns an id for request correlation, e.g. "req_a1b2c3...".
func NewRequestID() string {
	return "req_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
