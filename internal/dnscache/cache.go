// Package dnscache holds resolved addresses for a bounded time so the
// monitor does not resolve its target on every probe.
package dnscache

import (
	"net"
	"sync"
	"time"
)

// Entry records a resolution with its creation time and TTL.
type Entry struct {
	IP       net.IP
	CachedAt time.Time
	TTL      time.Duration
}

// expired reports whether the entry is past its TTL at the given time.
func (e Entry) expired(now time.Time) bool {
	return now.Sub(e.CachedAt) > e.TTL
}

// Cache maps hostnames to resolved addresses with expiry. Safe for
// concurrent readers, though the monitor is the only writer.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// New returns an empty cache on the wall clock.
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock returns an empty cache with an injected clock.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		now:     now,
	}
}

// Lookup returns the cached address only if present and unexpired. It never
// mutates the cache; expired entries are simply not returned.
func (c *Cache) Lookup(hostname string) (net.IP, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[hostname]
	if !ok || entry.expired(c.now()) {
		return nil, false
	}
	return entry.IP, true
}

// Store overwrites any existing entry for the hostname.
func (c *Cache) Store(hostname string, ip net.IP, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hostname] = Entry{IP: ip, CachedAt: c.now(), TTL: ttl}
}

// EvictIfExpired removes the entry only if it is expired. Fresh entries and
// missing hostnames are left untouched.
func (c *Cache) EvictIfExpired(hostname string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[hostname]
	if ok && entry.expired(c.now()) {
		delete(c.entries, hostname)
	}
}

// Remove unconditionally drops the entry.
func (c *Cache) Remove(hostname string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, hostname)
}
