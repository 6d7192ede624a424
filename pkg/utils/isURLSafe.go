package utils

import "regexp"

// MAX_URL_SAFE_LENGTH bounds IDs that end up in share links and database keys.
const MAX_URL_SAFE_LENGTH = 128

var urlSafePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// IsURLSafe reports whether value can be used as a single path segment without escaping.
func IsURLSafe(value string) bool {
	if value == "" || len(value) > MAX_URL_SAFE_LENGTH {
		return false
	}
	return urlSafePattern.MatchString(value)
}
