// Package email holds the address rules shared by accounts and employee records.
package email

import (
	"regexp"
	"strings"
)

var pattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Normalize is the canonical form used for lookups and storage.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Valid reports whether address, ignoring surrounding space, looks like local@domain.tld.
func Valid(address string) bool {
	return pattern.MatchString(strings.TrimSpace(address))
}
