// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poller

// VisibilitySource reports whether the host is in the foreground and
// notifies observers when that changes.
type VisibilitySource interface {
	Visible() bool
	// Observe registers fn and returns a function that detaches it.
	Observe(fn func(visible bool)) (detach func())
}

// StaticVisibility never changes. Hosts without a notion of foreground use
// StaticVisibility(true).
type StaticVisibility bool

func (v StaticVisibility) Visible() bool { return bool(v) }

func (StaticVisibility) Observe(func(bool)) func() { return func() {} }
