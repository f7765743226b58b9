package core

import "strings"

// CleanString trims surrounding whitespace from s; pass true to also lowercase it.
// Usernames and emails are cleaned lowered so lookups stay case-insensitive.
func CleanString(s string, lower ...bool) string {
	cleaned := strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		cleaned = strings.ToLower(cleaned)
	}
	return cleaned
}
