// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import (
	"errors"
	"fmt"

	"github.com/MWaltz469/calendarPlanner-v2-sub000/apperr"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
)

var (
	// ErrRankRequiresAvailable is a warning: the week was left unranked.
	ErrRankRequiresAvailable = errors.New("only available weeks can be ranked")
	ErrRankOutOfRange        = fmt.Errorf("rank must be between %d and %d", models.MinRank, models.MaxRank)
)

// Store holds one participant's selections, one per week, indexed by
// week number - 1. It is not safe for concurrent use; the owning session
// serializes access.
type Store struct {
	weeks []models.Selection
}

// Empty returns weekCount default selections.
func Empty(weekCount int) []models.Selection {
	out := make([]models.Selection, weekCount)
	for i := range out {
		out[i] = models.Selection{WeekNumber: i + 1, Status: models.Unselected}
	}
	return out
}

// NewStore returns a store with every week unselected.
func NewStore(weekCount int) *Store {
	return &Store{weeks: Empty(weekCount)}
}

// FromSelections builds a store from external selections, normalizing them.
func FromSelections(weekCount int, sels []models.Selection) *Store {
	raw := make([]Raw, 0, len(sels))
	for _, s := range sels {
		r := Raw{WeekNumber: s.WeekNumber, Status: s.Status.String()}
		if s.Rank != nil {
			r.Rank = *s.Rank
		}
		raw = append(raw, r)
	}
	return &Store{weeks: Normalize(weekCount, raw)}
}

// WeekCount returns the number of weeks held.
func (s *Store) WeekCount() int {
	return len(s.weeks)
}

// Selections returns a copy of all selections in week order.
func (s *Store) Selections() []models.Selection {
	return Clone(s.weeks)
}

// Get returns the selection for weekNumber.
func (s *Store) Get(weekNumber int) (models.Selection, bool) {
	if !s.inRange(weekNumber) {
		return models.Selection{}, false
	}
	return cloneOne(s.weeks[weekNumber-1]), true
}

// Replace swaps in a new set of selections, normalizing them.
func (s *Store) Replace(sels []models.Selection) {
	*s = *FromSelections(len(s.weeks), sels)
}

// SetStatus sets a week's status. A status other than Available clears the
// week's rank.
func (s *Store) SetStatus(weekNumber int, status models.Status) error {
	if !s.inRange(weekNumber) {
		return apperr.Newf(apperr.CodeValidation, "week %d is outside 1-%d", weekNumber, len(s.weeks))
	}
	sel := &s.weeks[weekNumber-1]
	sel.Status = status
	if status != models.Available {
		sel.Rank = nil
	}
	s.EnforceRankConsistency()
	return nil
}

// SetRank assigns rank to a week, taking it away from whichever week held it
// before. The displaced week number is returned (0 when none).
//
// If the week is not Available it is left unranked and
// ErrRankRequiresAvailable is returned as a warning.
func (s *Store) SetRank(weekNumber, rank int) (int, error) {
	if !s.inRange(weekNumber) {
		return 0, apperr.Newf(apperr.CodeValidation, "week %d is outside 1-%d", weekNumber, len(s.weeks))
	}
	if rank < models.MinRank || rank > models.MaxRank {
		return 0, ErrRankOutOfRange
	}
	sel := &s.weeks[weekNumber-1]
	if sel.Status != models.Available {
		sel.Rank = nil
		return 0, ErrRankRequiresAvailable
	}

	displaced := 0
	for i := range s.weeks {
		other := &s.weeks[i]
		if other.WeekNumber != weekNumber && other.Rank != nil && *other.Rank == rank {
			other.Rank = nil
			displaced = other.WeekNumber
		}
	}
	sel.Rank = models.Rank(rank)
	return displaced, nil
}

// ClearRank removes a week's rank.
func (s *Store) ClearRank(weekNumber int) error {
	if !s.inRange(weekNumber) {
		return apperr.Newf(apperr.CodeValidation, "week %d is outside 1-%d", weekNumber, len(s.weeks))
	}
	s.weeks[weekNumber-1].Rank = nil
	return nil
}

// EnforceRankConsistency normalizes ranks in place. It is idempotent.
func (s *Store) EnforceRankConsistency() {
	enforce(s.weeks)
}

// Counts reports how many weeks are available, maybe and ranked.
func (s *Store) Counts() (available, maybe, ranked int) {
	for _, sel := range s.weeks {
		switch sel.Status {
		case models.Available:
			available++
		case models.Maybe:
			maybe++
		case models.Unselected:
		}
		if sel.Rank != nil {
			ranked++
		}
	}
	return available, maybe, ranked
}

// HasMarks reports whether any week is Available or Maybe.
func (s *Store) HasMarks() bool {
	return HasMarks(s.weeks)
}

// Rows returns the marked selections tagged with participantID.
func (s *Store) Rows(participantID string) []models.SelectionRow {
	return Rows(participantID, s.weeks)
}

// RankedWeeks returns week numbers indexed by rank - 1 (0 where unused).
func (s *Store) RankedWeeks() [models.MaxRank]int {
	var out [models.MaxRank]int
	for _, sel := range s.weeks {
		if sel.Rank != nil {
			out[*sel.Rank-1] = sel.WeekNumber
		}
	}
	return out
}

func (s *Store) inRange(weekNumber int) bool {
	return weekNumber >= 1 && weekNumber <= len(s.weeks)
}

// HasMarks reports whether any selection is Available or Maybe.
func HasMarks(sels []models.Selection) bool {
	for _, sel := range sels {
		if sel.Status.Marked() {
			return true
		}
	}
	return false
}

// Rows converts marked selections into aggregation rows.
func Rows(participantID string, sels []models.Selection) []models.SelectionRow {
	var rows []models.SelectionRow
	for _, sel := range sels {
		if !sel.Status.Marked() {
			continue
		}
		rows = append(rows, models.SelectionRow{
			ParticipantID: participantID,
			WeekNumber:    sel.WeekNumber,
			Status:        sel.Status,
			Rank:          cloneRank(sel.Rank),
		})
	}
	return rows
}

// Clone deep-copies selections.
func Clone(sels []models.Selection) []models.Selection {
	if sels == nil {
		return nil
	}
	out := make([]models.Selection, len(sels))
	for i, sel := range sels {
		out[i] = cloneOne(sel)
	}
	return out
}

func cloneOne(sel models.Selection) models.Selection {
	sel.Rank = cloneRank(sel.Rank)
	return sel
}

func cloneRank(r *int) *int {
	if r == nil {
		return nil
	}
	return models.Rank(*r)
}

// enforce scans in week order; the first week to claim a rank keeps it.
func enforce(sels []models.Selection) {
	var claimed [models.MaxRank + 1]bool
	for i := range sels {
		sel := &sels[i]
		if sel.Rank == nil {
			continue
		}
		r := *sel.Rank
		if sel.Status != models.Available || r < models.MinRank || r > models.MaxRank || claimed[r] {
			sel.Rank = nil
			continue
		}
		claimed[r] = true
	}
}
