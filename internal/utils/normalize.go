package utils

import "strings"

// NormalizeName produces the matching key used everywhere ingredient
// names are compared: pantry lookups, staple membership and recipe
// matching. Lower-case and trimmed, nothing more — "tomato" and
// "tomatoes" are distinct keys.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
