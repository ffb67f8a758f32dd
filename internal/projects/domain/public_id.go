package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultIDPrefix and DefaultSerialWidth shape structured ids like "PRJ-AI-0007".
const (
	DefaultIDPrefix    = "PRJ"
	DefaultSerialWidth = 4
)

// FormatStructuredID composes prefix, classification code and the zero-padded serial.
func FormatStructuredID(prefix string, tag ClassificationTag, serial, width int) string {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	if width <= 0 {
		width = DefaultSerialWidth
	}
	return fmt.Sprintf("%s-%s-%0*d", prefix, tag.Code(), width, serial)
}

// ParseStructuredID splits a structured id back into its code and serial.
func ParseStructuredID(id string) (prefix, code string, serial int, err error) {
	parts := strings.Split(id, "-")
	if len(parts) < 3 {
		return "", "", 0, fmt.Errorf("%w: malformed structured id %q", ErrInputValidation, id)
	}
	n := len(parts)
	serial, err = strconv.Atoi(parts[n-1])
	if err != nil || serial < 0 {
		return "", "", 0, fmt.Errorf("%w: malformed serial in %q", ErrInputValidation, id)
	}
	return strings.Join(parts[:n-2], "-"), parts[n-2], serial, nil
}
