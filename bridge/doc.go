// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package bridge defines the persistence boundary used by sessions and two
implementations of it.

Client speaks the HTTP API served by the router package. Network failures,
408, 429 and 5xx answers become TRANSIENT_IO; 400, 404, 409 and 423 map to
their codes; anything else is UNEXPECTED_SERVER_ERROR.

Direct calls a repository in the same process, for tools and tests that do
not need a server.
*/
package bridge
