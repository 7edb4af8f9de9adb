// Package normalization holds input canonicalization shared by auth and
// user personalization fields.
package normalization

import "strings"

// ParseInputString lowercases and trims free-form identity input, so email
// lookups are case-insensitive by construction.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func ParseInputStringPtr(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := ParseInputString(*input)
	return &normalized
}
