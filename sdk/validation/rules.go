package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	phoneRe = regexp.MustCompile(`^(\+62|62|0)8[1-9][0-9]{7,10}$`)
	slugRe  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// IsEmail reports whether s is a bare address like "a@b.co".
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s, ".")
}

// IsPhone accepts Indonesian mobile numbers (+62, 62 or 0 prefix).
func IsPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// IsSlug reports whether s is lowercase alphanumerics joined by single hyphens.
func IsSlug(s string) bool {
	return slugRe.MatchString(s)
}

// IsHTTPURL reports whether s is an absolute http or https URL.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// LenBetween counts runes, not bytes.
func LenBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// FieldErrors collects per-field validation failures.
type FieldErrors map[string]string

// Check records msg for field when ok is false. The first failure per field wins.
func (fe FieldErrors) Check(ok bool, field, msg string) {
	if ok {
		return
	}
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Err returns nil when no field failed.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, fe[f]))
	}
	return strings.Join(parts, "; ")
}
