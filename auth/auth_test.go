// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateAdminKey(t *testing.T) {
	tests := []struct {
		name   string
		tripID string
		salt   string
	}{
		{"standard", "trip123", "secret-salt"},
		{"empty trip id", "", "salt"},
		{"empty salt", "trip456", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := GenerateAdminKey(tt.tripID, tt.salt)

			if key == "" {
				t.Error("GenerateAdminKey() returned empty string")
			}

			// Should be deterministic
			key2 := GenerateAdminKey(tt.tripID, tt.salt)
			if key != key2 {
				t.Error("GenerateAdminKey() is not deterministic")
			}

			if tt.tripID != "" && tt.salt != "" {
				differentKey := GenerateAdminKey(tt.tripID+"x", tt.salt)
				if key == differentKey {
					t.Error("GenerateAdminKey() produced same key for different trip IDs")
				}
			}

			if strings.ContainsAny(key, "+/=") {
				t.Errorf("GenerateAdminKey() = %q, want URL-safe without padding", key)
			}
		})
	}
}

func TestValidateAdminKey(t *testing.T) {
	salt := "test-salt"
	tripID := "trip-1"
	valid := GenerateAdminKey(tripID, salt)

	tests := []struct {
		name    string
		tripID  string
		key     string
		wantErr bool
	}{
		{"valid key", tripID, valid, false},
		{"wrong key", tripID, "not-the-key", true},
		{"empty key", tripID, "", true},
		{"key for another trip", "trip-2", valid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.tripID, tt.key, salt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want ErrInvalidAdminKey", err)
			}
		})
	}
}

func TestGenerateShareCode(t *testing.T) {
	code := GenerateShareCode("trip-abc", "salt")

	if len(code) != ShareCodeLength {
		t.Fatalf("GenerateShareCode() length = %d, want %d", len(code), ShareCodeLength)
	}
	if code != strings.ToUpper(code) {
		t.Errorf("GenerateShareCode() = %q, want upper-case", code)
	}
	if strings.ContainsAny(code, "01IO") {
		t.Errorf("GenerateShareCode() = %q contains ambiguous characters", code)
	}
	if code != GenerateShareCode("trip-abc", "salt") {
		t.Error("GenerateShareCode() is not deterministic")
	}
	if code == GenerateShareCode("trip-abd", "salt") {
		t.Error("GenerateShareCode() produced same code for different trips")
	}
}

func TestBase32Encode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"zero", []byte{0, 0, 0, 0, 0, 0, 0, 0}, "2222222222222"},
		{"one", []byte{0, 0, 0, 0, 0, 0, 0, 1}, "2222222222223"},
		{"thirty-two", []byte{0, 0, 0, 0, 0, 0, 0, 32}, "2222222222232"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base32Encode(tt.data); got != tt.want {
				t.Errorf("base32Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}
