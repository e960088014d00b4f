// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Status is a participant's availability mark for one week.
type Status int

const (
	Unselected Status = iota
	Available
	Maybe
)

// String returns the wire and storage form of the status
func (s Status) String() string {
	switch s {
	case Available:
		return "available"
	case Maybe:
		return "maybe"
	default:
		return "unselected"
	}
}

// Marked reports whether the status counts toward an aggregate.
func (s Status) Marked() bool {
	return s == Available || s == Maybe
}

// ParseStatus parses the text form. Unknown text yields Unselected and false.
func ParseStatus(text string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "available":
		return Available, true
	case "maybe":
		return Maybe, true
	case "unselected", "":
		return Unselected, true
	default:
		return Unselected, false
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON never fails on an unknown value; it decodes to Unselected.
func (s *Status) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		*s = Unselected
		return nil
	}
	*s, _ = ParseStatus(text)
	return nil
}

// Value implements driver.Valuer
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner
func (s *Status) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s, _ = ParseStatus(v)
	case []byte:
		*s, _ = ParseStatus(string(v))
	case nil:
		*s = Unselected
	default:
		return fmt.Errorf("cannot scan %T into Status", src)
	}
	return nil
}
