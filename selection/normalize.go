// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
)

// Raw is a selection as it arrives from storage or an older client layout,
// before any validation.
type Raw struct {
	WeekNumber int
	Status     string
	Rank       interface{}
}

// Normalize maps raw input onto weekCount well-formed selections.
// Out-of-range weeks are dropped, unknown statuses become Unselected and
// unusable ranks become null; the last entry for a week wins. It never fails.
func Normalize(weekCount int, raw []Raw) []models.Selection {
	out := Empty(weekCount)
	for _, r := range raw {
		if r.WeekNumber < 1 || r.WeekNumber > weekCount {
			continue
		}
		status, _ := models.ParseStatus(r.Status)
		out[r.WeekNumber-1] = models.Selection{
			WeekNumber: r.WeekNumber,
			Status:     status,
			Rank:       coerceRank(r.Rank),
		}
	}
	enforce(out)
	return out
}

// coerceRank returns nil for anything that is not an integer in 1..5.
func coerceRank(v interface{}) *int {
	var n int
	switch r := v.(type) {
	case nil:
		return nil
	case *int:
		if r == nil {
			return nil
		}
		n = *r
	case int:
		n = r
	case int64:
		n = int(r)
	case float64:
		if r != math.Trunc(r) || math.IsInf(r, 0) {
			return nil
		}
		n = int(r)
	case json.Number:
		i, err := r.Int64()
		if err != nil {
			return nil
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	if n < models.MinRank || n > models.MaxRank {
		return nil
	}
	return models.Rank(n)
}

// ParseJSON reads selections from a JSON blob in any layout a client has
// stored them in:
//
//	[{"weekNumber": 3, "status": "available", "rank": 1}, ...]
//	{"selections": [...]}
//	{"3": {"status": "available", "rank": 1}, ...}
//
// Field names may be camelCase or snake_case. Invalid JSON yields an empty
// set of selections.
func ParseJSON(weekCount int, data []byte) []models.Selection {
	if !gjson.ValidBytes(data) {
		return Empty(weekCount)
	}
	root := gjson.ParseBytes(data)
	if wrapped := root.Get("selections"); root.IsObject() && wrapped.Exists() {
		root = wrapped
	}

	var raw []Raw
	switch {
	case root.IsArray():
		root.ForEach(func(_, v gjson.Result) bool {
			raw = append(raw, rawFromJSON(v, 0))
			return true
		})
	case root.IsObject():
		root.ForEach(func(k, v gjson.Result) bool {
			week, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(k.String()), "week"))
			if err != nil {
				week = 0
			}
			raw = append(raw, rawFromJSON(v, week))
			return true
		})
	}
	return Normalize(weekCount, raw)
}

func rawFromJSON(v gjson.Result, fallbackWeek int) Raw {
	r := Raw{WeekNumber: fallbackWeek}

	for _, key := range []string{"weekNumber", "week_number", "week"} {
		w := v.Get(key)
		if !w.Exists() {
			continue
		}
		r.WeekNumber = 0
		if w.Type == gjson.Number && w.Num == math.Trunc(w.Num) {
			r.WeekNumber = int(w.Num)
		}
		break
	}

	if s := v.Get("status"); s.Type == gjson.String {
		r.Status = s.Str
	} else if s.Exists() {
		r.Status = "invalid"
	}

	switch rank := v.Get("rank"); rank.Type {
	case gjson.Number:
		r.Rank = rank.Num
	case gjson.String:
		r.Rank = rank.Str
	case gjson.Null:
		r.Rank = nil
	default:
		r.Rank = rank.Raw
	}
	return r
}
