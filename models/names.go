// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "strings"

// Name and code limits
const (
	MaxNameLength      = 50
	MaxShareCodeLength = 32
)

// NormalizeShareCode trims and upper-cases a share code.
func NormalizeShareCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeName trims a participant name and collapses inner whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NameKey is the case-insensitive identity of a participant name within a
// trip.
func NameKey(name string) string {
	return strings.ToLower(NormalizeName(name))
}
