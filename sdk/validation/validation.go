// Package validation holds input checks and small value helpers shared by the
// bridges and repositories.
package validation

import (
	"strings"
	"time"
)

func StringPtr(s string) *string {
	return &s
}

func StringPtrValue(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}

// StringPtrIfNotEmpty returns a pointer to string if not empty, otherwise nil
func StringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// TrimToNil trims s and returns nil for an empty result.
func TrimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	return StringPtrIfNotEmpty(strings.TrimSpace(*s))
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

func BoolPtr(b bool) *bool {
	return &b
}

func IntPtr(i int) *int {
	return &i
}

func Int64Ptr(i int64) *int64 {
	return &i
}

// GetStringOrDefault returns the string value or a default value if nil
func GetStringOrDefault(s *string, defaultValue string) string {
	if s == nil {
		return defaultValue
	}
	return *s
}

// GetIntOrDefault returns the int value or a default value if nil
func GetIntOrDefault(i *int, defaultValue int) int {
	if i == nil {
		return defaultValue
	}
	return *i
}

// FormatTimePtr formats t as RFC3339 or returns nil.
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
