// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session drives one participant through joining a trip, editing
selections and staying in step with the rest of the group.

A Session starts Anonymous. Marks made before joining are kept locally and
aggregated as a preview. Join and Resume reconcile local and remote
selections with Reconcile: remote marks win, local marks are adopted and
pushed only when the server has none, and an empty result is still a full
52-week set. The one exception is edits the server cannot have seen: marks
changed while the join request was out, or unsaved edits of the same
participant rejoining. Those are kept and pushed.

Local records are keyed by trip code and name under the trip's year, so a
rejoin finds them even when the local year setting differs.

Every edit is applied at once, written to the local store and pushed after a
debounce window (one live timer per session). A failed push keeps the
session Dirty and retries on the next window. Changing identity, leaving or
closing bumps a generation counter so saves and refreshes started for the
old identity are dropped when they return.

While joined, group data is refreshed through a poller.SubscriptionChannel
and the session's own rows are overlaid from the local store, so the
leaderboard reflects unsaved edits immediately.
*/
package session
