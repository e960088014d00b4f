// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidAdminKey = errors.New("invalid admin key")

// ShareCodeLength is the length of generated share codes
const ShareCodeLength = 8

// GenerateAdminKey creates an HMAC-based admin key for a trip
// This is deterministic and verifiable
func GenerateAdminKey(tripID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(tripID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the trip
func ValidateAdminKey(tripID, adminKey, salt string) error {
	if adminKey == "" {
		return ErrInvalidAdminKey
	}
	expected := GenerateAdminKey(tripID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateShareCode creates a short, deterministic join code for a trip.
// Codes are upper-case so they survive the case folding joiners apply.
func GenerateShareCode(tripID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(tripID))
	sum := h.Sum(nil)

	return base32Encode(sum[:8])[:ShareCodeLength]
}

// base32Encode converts bytes using an alphabet without 0/O and 1/I,
// so codes read back correctly when typed from a screen.
func base32Encode(data []byte) string {
	const alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	// 64 bits is 13 base32 digits; keep leading zeros so length is fixed.
	result := make([]byte, 13)
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = alphabet[num%32]
		num /= 32
	}
	return string(result)
}
