// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package repository implements trip, participant and selection storage over
sqlx, portable between SQLite and PostgreSQL.

Every failure is an *apperr.Error: missing rows are NOT_FOUND, a locked trip
is LOCKED, a taken share code is CONFLICT and anything the database reports
is UNEXPECTED_SERVER_ERROR.

Selections are stored sparsely: only available and maybe weeks have a row.
UpsertSelections normalizes its input and replaces the participant's rows in
one transaction, so a week or rank left out of the payload is cleared.
*/
package repository
