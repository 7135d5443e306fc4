package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and lowers it.
func CleanString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
