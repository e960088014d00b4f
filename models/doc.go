// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types shared by the
server, the bridge client and the session engine.

# Domain Types

  - Trip: share code, year, window config, timezone label, locked flag
  - Participant: one named member of a trip, submission timestamp, step
  - Selection: status + optional rank for one week
  - SelectionRow: a Selection tagged with its participant (aggregation input)
  - WeekDescriptor: one of the 52 candidate date windows
  - WeekAggregate: derived per-week rollup (counts, score, average rank)
  - GroupData: every participant and stored selection of a trip

# Status

Status is a closed enum:

	Unselected, Available, Maybe

It encodes as "unselected", "available" and "maybe" in JSON and in the
database. Unknown text decodes to Unselected rather than failing, so stored
or migrated data always stays renderable.

# Limits

	WeekCount = 52
	MinRank..MaxRank = 1..5
	MinStep..MaxStep = 1..4
	MinWindowDays..MaxWindowDays = 6..9
*/
package models
