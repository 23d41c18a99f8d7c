// Package normalize holds input normalization applied at the auth and
// profile boundaries, before anything is stored or compared.
package normalize

import "strings"

// Email trims surrounding whitespace and lowercases the address. All email
// identity comparisons in the relationship collections assume this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}
