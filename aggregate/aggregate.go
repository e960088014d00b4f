// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/selection"
)

// Score weights
const (
	AvailableWeight = 100
	MaybeWeight     = 25
)

// RankBonus is added to a week's score for every participant who gave the
// week that rank.
var RankBonus = map[int]int{1: 10, 2: 8, 3: 6, 4: 4, 5: 2}

// DefaultLeaderboardSize is how many weeks a leaderboard shows by default
const DefaultLeaderboardSize = 10

// Compute aggregates rows into one WeekAggregate per week and returns them
// ordered best first. participants supplies display names; it may be nil.
// The inputs are never modified.
func Compute(rows []models.SelectionRow, participants []models.Participant) []models.WeekAggregate {
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	buckets := make([]models.WeekAggregate, models.WeekCount)
	ranks := make([]stats.Float64Data, models.WeekCount)
	for i := range buckets {
		buckets[i] = models.WeekAggregate{WeekNumber: i + 1, People: []models.PersonMark{}}
	}

	for _, row := range rows {
		if row.WeekNumber < 1 || row.WeekNumber > models.WeekCount {
			continue
		}
		b := &buckets[row.WeekNumber-1]

		switch row.Status {
		case models.Available:
			b.AvailableCount++
		case models.Maybe:
			b.MaybeCount++
		case models.Unselected:
			continue
		}

		var rank *int
		if row.Rank != nil {
			r := *row.Rank
			rank = &r
			ranks[row.WeekNumber-1] = append(ranks[row.WeekNumber-1], float64(r))
			b.Score += RankBonus[r]
		}
		b.People = append(b.People, models.PersonMark{
			Name:   names[row.ParticipantID],
			Status: row.Status,
			Rank:   rank,
		})
	}

	for i := range buckets {
		b := &buckets[i]
		b.Score += b.AvailableCount*AvailableWeight + b.MaybeCount*MaybeWeight
		if len(ranks[i]) > 0 {
			if avg, err := stats.Mean(ranks[i]); err == nil {
				b.AvgRank = &avg
			}
		}
	}

	Sort(buckets)
	return buckets
}

// Sort orders aggregates by score, then available count, then average rank
// (unranked last), then week number.
func Sort(aggs []models.WeekAggregate) {
	sort.SliceStable(aggs, func(i, j int) bool {
		a, b := aggs[i], aggs[j]

		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.AvailableCount != b.AvailableCount {
			return a.AvailableCount > b.AvailableCount
		}
		if (a.AvgRank == nil) != (b.AvgRank == nil) {
			return a.AvgRank != nil
		}
		if a.AvgRank != nil && *a.AvgRank != *b.AvgRank {
			return *a.AvgRank < *b.AvgRank
		}
		return a.WeekNumber < b.WeekNumber
	})
}

// FromSelections aggregates a single participant's selections (preview mode).
func FromSelections(participantID, name string, sels []models.Selection) []models.WeekAggregate {
	return Compute(
		selection.Rows(participantID, sels),
		[]models.Participant{{ID: participantID, Name: name}},
	)
}

// FromStore is FromSelections over a live selection store.
func FromStore(participantID, name string, s *selection.Store) []models.WeekAggregate {
	return FromSelections(participantID, name, s.Selections())
}

// Leaderboard returns the first limit entries. A non-positive limit means
// DefaultLeaderboardSize.
func Leaderboard(aggs []models.WeekAggregate, limit int) []models.WeekAggregate {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	if limit > len(aggs) {
		limit = len(aggs)
	}
	return aggs[:limit]
}

// TopPick returns the best week, but only when it scored at all. An all-zero
// result means nobody has marked anything yet.
func TopPick(aggs []models.WeekAggregate) (models.WeekAggregate, bool) {
	if len(aggs) == 0 || aggs[0].Score <= 0 {
		return models.WeekAggregate{}, false
	}
	return aggs[0], true
}

// Find returns the aggregate for weekNumber.
func Find(aggs []models.WeekAggregate, weekNumber int) (models.WeekAggregate, bool) {
	for _, a := range aggs {
		if a.WeekNumber == weekNumber {
			return a, true
		}
	}
	return models.WeekAggregate{}, false
}

// Response builds the API view of a computed aggregate.
func Response(tripID string, group models.GroupData, aggs []models.WeekAggregate, limit int) models.LeaderboardResponse {
	resp := models.LeaderboardResponse{
		TripID:           tripID,
		ParticipantCount: len(group.Participants),
		Weeks:            Leaderboard(aggs, limit),
	}
	for _, p := range group.Participants {
		if p.SubmittedAt != nil {
			resp.SubmittedCount++
		}
	}
	if top, ok := TopPick(aggs); ok {
		resp.TopPick = &top
	} else {
		resp.Message = "no selections yet"
	}
	return resp
}
