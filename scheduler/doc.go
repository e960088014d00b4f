// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package scheduler provides token-keyed deferred tasks used for debounced
// auto-save and poll timers.
//
// Every timer goes through a Clock so tests can drive time explicitly with
// ManualClock instead of sleeping.
package scheduler
