// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key and share code generation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(tripID, salt)
	err := auth.ValidateAdminKey(tripID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same trip ID and salt always produce the same key. This allows validation
without storing the key in the database. Admin keys gate locking a trip and
resetting a participant's submission.

# Share Codes

Share codes are what participants type to join a trip:

	code := auth.GenerateShareCode(tripID, salt)

Codes are eight upper-case characters from an alphabet without 0, 1, I or O.
Like admin keys, they're deterministic from the trip ID and salt.
*/
package auth
