// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package poller keeps group data roughly fresh by re-fetching on a timer.

Each tick skips if a fetch is still running. Success resets the interval to
Config.Base; each consecutive failure stretches it to
min(Config.Max, Base * Factor^failures). While the host is hidden no timer is
scheduled at all, and returning to the foreground resets the backoff and
ticks immediately.

Poller implements SubscriptionChannel, so a push transport can replace it
without touching session or aggregation code.
*/
package poller
