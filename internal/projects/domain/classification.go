package domain

import (
	"fmt"
	"strings"
)

// ClassificationTag is the project category derived from roles and tech stack.
type ClassificationTag string

const (
	TagAI             ClassificationTag = "AI"
	TagDataScience    ClassificationTag = "DATA_SCIENCE"
	TagMobileDev      ClassificationTag = "MOBILE_DEV"
	TagDevOps         ClassificationTag = "DEVOPS"
	TagUIUX           ClassificationTag = "UI_UX"
	TagWebDev         ClassificationTag = "WEB_DEV"
	TagCloudComputing ClassificationTag = "CLOUD_COMPUTING"
	TagOther          ClassificationTag = "OTHER"
)

var tagCodes = map[ClassificationTag]string{
	TagAI:             "AI",
	TagDataScience:    "DS",
	TagMobileDev:      "MOB",
	TagDevOps:         "OPS",
	TagUIUX:           "UX",
	TagWebDev:         "WEB",
	TagCloudComputing: "CLD",
	TagOther:          "OTH",
}

// Code is the short form used inside structured identifiers.
func (t ClassificationTag) Code() string {
	if c, ok := tagCodes[t]; ok {
		return c
	}
	return tagCodes[TagOther]
}

// Valid reports whether t is one of the known tags.
func (t ClassificationTag) Valid() bool {
	_, ok := tagCodes[t]
	return ok
}

// ParseTag accepts either the tag name or its code, case-insensitively.
func ParseTag(s string) (ClassificationTag, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if t := ClassificationTag(s); t.Valid() {
		return t, nil
	}
	for t, code := range tagCodes {
		if code == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown classification %q", ErrInputValidation, s)
}
