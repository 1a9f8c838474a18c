// Package cache provides the bounded-staleness entity cache used by the
// repositories. Entries expire after a fixed TTL and are checked lazily on
// read; there is no background eviction, stale entries are simply ignored
// until the next successful store read overwrites them.
package cache
