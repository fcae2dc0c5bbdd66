package entity

import "regexp"

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IsURLSafe reports whether s can be used verbatim as a single URL path
// segment: ASCII letters, digits, hyphen and underscore only.
func IsURLSafe(s string) bool {
	return urlSafe.MatchString(s)
}
