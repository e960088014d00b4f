// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
)

func TestNormalize(t *testing.T) {
	t.Run("out of range week is dropped", func(t *testing.T) {
		got := Normalize(models.WeekCount, []Raw{{WeekNumber: 53, Status: "bogus", Rank: 9}})
		assert.Equal(t, Empty(models.WeekCount), got)
	})

	t.Run("bogus status and rank are coerced", func(t *testing.T) {
		got := Normalize(models.WeekCount, []Raw{{WeekNumber: 10, Status: "bogus", Rank: 9}})
		assert.Equal(t, models.Selection{WeekNumber: 10, Status: models.Unselected, Rank: nil}, got[9])
	})

	t.Run("rank coercion", func(t *testing.T) {
		tests := []struct {
			name string
			rank interface{}
			want *int
		}{
			{"int", 3, models.Rank(3)},
			{"whole float", 2.0, models.Rank(2)},
			{"fractional float", 2.5, nil},
			{"numeric string", "4", models.Rank(4)},
			{"junk string", "first", nil},
			{"json number", json.Number("5"), models.Rank(5)},
			{"zero", 0, nil},
			{"bool", true, nil},
			{"nil", nil, nil},
		}
		for _, tt := range tests {
			got := Normalize(models.WeekCount, []Raw{{WeekNumber: 1, Status: "available", Rank: tt.rank}})
			assert.Equal(t, tt.want, got[0].Rank, tt.name)
		}
	})

	t.Run("last entry for a week wins", func(t *testing.T) {
		got := Normalize(models.WeekCount, []Raw{
			{WeekNumber: 2, Status: "maybe"},
			{WeekNumber: 2, Status: "available", Rank: 1},
		})
		assert.Equal(t, models.Available, got[1].Status)
		assert.Equal(t, models.Rank(1), got[1].Rank)
	})

	t.Run("rank on non-available week is cleared", func(t *testing.T) {
		got := Normalize(models.WeekCount, []Raw{{WeekNumber: 8, Status: "maybe", Rank: 1}})
		assert.Nil(t, got[7].Rank)
	})
}

func TestParseJSON(t *testing.T) {
	t.Run("array layout", func(t *testing.T) {
		got := ParseJSON(models.WeekCount, []byte(`[
			{"weekNumber": 3, "status": "available", "rank": 1},
			{"week_number": 4, "status": "maybe", "rank": null},
			{"weekNumber": 53, "status": "available", "rank": 2}
		]`))
		require.Len(t, got, models.WeekCount)
		assert.Equal(t, models.Available, got[2].Status)
		assert.Equal(t, models.Rank(1), got[2].Rank)
		assert.Equal(t, models.Maybe, got[3].Status)
	})

	t.Run("wrapped array", func(t *testing.T) {
		got := ParseJSON(models.WeekCount, []byte(`{"selections":[{"week":12,"status":"available","rank":"2"}]}`))
		assert.Equal(t, models.Available, got[11].Status)
		assert.Equal(t, models.Rank(2), got[11].Rank)
	})

	t.Run("legacy object layout", func(t *testing.T) {
		got := ParseJSON(models.WeekCount, []byte(`{
			"1": {"status": "available", "rank": 3},
			"week2": {"status": "maybe"},
			"x": {"status": "available"},
			"60": {"status": "available"}
		}`))
		assert.Equal(t, models.Available, got[0].Status)
		assert.Equal(t, models.Rank(3), got[0].Rank)
		assert.Equal(t, models.Maybe, got[1].Status)
		available, maybe := 0, 0
		for _, sel := range got {
			switch sel.Status {
			case models.Available:
				available++
			case models.Maybe:
				maybe++
			}
		}
		assert.Equal(t, 1, available)
		assert.Equal(t, 1, maybe)
	})

	t.Run("non-string status and fractional week", func(t *testing.T) {
		got := ParseJSON(models.WeekCount, []byte(`[{"weekNumber": 5, "status": 1, "rank": 1}, {"weekNumber": 6.5, "status": "available"}]`))
		assert.Equal(t, Empty(models.WeekCount), got)
	})

	t.Run("invalid json", func(t *testing.T) {
		assert.Equal(t, Empty(models.WeekCount), ParseJSON(models.WeekCount, []byte(`{not json`)))
	})
}
