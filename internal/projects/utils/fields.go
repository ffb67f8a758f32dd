package utils

import (
	"reflect"
	"strings"
)

// fieldMap pairs the cache (camelCase) attribute names with the remote
// column-style names. Unlisted keys pass through unchanged.
var fieldMap = []struct{ Local, Remote string }{
	{"name", "name"},
	{"description", "description"},
	{"startDate", "start_date"},
	{"endDate", "end_date"},
	{"status", "status"},
	{"scope", "scope"},
	{"budget", "budget"},
	{"clientName", "client_name"},
	{"priority", "priority"},
	{"organizationId", "organization_id"},
	{"repositoryUrl", "repository_url"},
	{"deliverables", "deliverables"},
}

var (
	localToRemote = make(map[string]string, len(fieldMap))
	remoteToLocal = make(map[string]string, len(fieldMap))
)

func init() {
	for _, f := range fieldMap {
		localToRemote[f.Local] = f.Remote
		remoteToLocal[f.Remote] = f.Local
	}
}

// RemoteField returns the remote name for a cache attribute name.
func RemoteField(local string) string {
	if r, ok := localToRemote[local]; ok {
		return r
	}
	return local
}

// LocalField returns the cache name for a remote attribute name.
func LocalField(remote string) string {
	if l, ok := remoteToLocal[remote]; ok {
		return l
	}
	return remote
}

// ToRemote renames cache attributes for the remote store, dropping empty values.
func ToRemote(attrs map[string]any) map[string]any {
	return rename(Normalize(attrs), RemoteField)
}

// ToLocal renames remote attributes for the cache, dropping empty values.
func ToLocal(attrs map[string]any) map[string]any {
	return rename(Normalize(attrs), LocalField)
}

func rename(attrs map[string]any, fn func(string) string) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[fn(k)] = v
	}
	return out
}

// Normalize drops nil values, blank strings and empty slices or maps so that
// nothing empty is written to fields with non-null semantics. Strings are trimmed.
func Normalize(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if v, keep := normalizeValue(v); keep {
			out[k] = v
		}
	}
	return out
}

func normalizeValue(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case string:
		x = strings.TrimSpace(x)
		return x, x != ""
	case *string:
		if x == nil {
			return nil, false
		}
		return normalizeValue(*x)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		if rv.IsNil() || rv.Len() == 0 {
			return nil, false
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
	}
	return v, true
}

// CleanStrings trims each entry and drops blanks. A nil input stays nil so
// "not provided" remains distinguishable from "cleared".
func CleanStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
