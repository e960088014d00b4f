// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"github.com/MWaltz469/calendarPlanner-v2-sub000/models"
	"github.com/MWaltz469/calendarPlanner-v2-sub000/selection"
)

// Source says which side a reconciliation adopted.
type Source int

const (
	SourceEmpty Source = iota
	SourceRemote
	SourceLocal
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceLocal:
		return "local"
	default:
		return "empty"
	}
}

// Reconcile decides what a participant sees after joining. Stored marks on
// the server win outright; otherwise local marks win and have to be pushed.
// Sides are never merged week by week. The result is always a full,
// consistent set of weekCount selections.
func Reconcile(weekCount int, local, remote []models.Selection) ([]models.Selection, Source) {
	if selection.HasMarks(remote) {
		return selection.FromSelections(weekCount, remote).Selections(), SourceRemote
	}
	if selection.HasMarks(local) {
		return selection.FromSelections(weekCount, local).Selections(), SourceLocal
	}
	return selection.Empty(weekCount), SourceEmpty
}
