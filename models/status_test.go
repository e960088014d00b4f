// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in    string
		want  Status
		known bool
	}{
		{"available", Available, true},
		{" Maybe ", Maybe, true},
		{"unselected", Unselected, true},
		{"", Unselected, true},
		{"bogus", Unselected, false},
	}

	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if got != tt.want || ok != tt.known {
			t.Errorf("ParseStatus(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.known)
		}
	}
}

func TestStatusJSON(t *testing.T) {
	var sel Selection
	if err := json.Unmarshal([]byte(`{"week_number":4,"status":"bogus","rank":null}`), &sel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Status != Unselected {
		t.Errorf("expected unknown status to decode as unselected, got %v", sel.Status)
	}

	out, err := json.Marshal(Selection{WeekNumber: 2, Status: Available, Rank: Rank(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"week_number":2,"status":"available","rank":1}`
	if string(out) != want {
		t.Errorf("expected %s, got %s", want, out)
	}
}

func TestStatusScan(t *testing.T) {
	var s Status
	if err := s.Scan([]byte("maybe")); err != nil || s != Maybe {
		t.Errorf("Scan([]byte) = %v, %v", s, err)
	}
	if err := s.Scan(nil); err != nil || s != Unselected {
		t.Errorf("Scan(nil) = %v, %v", s, err)
	}
	if err := s.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}
