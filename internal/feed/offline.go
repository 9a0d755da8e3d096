package feed

import (
	"strings"
	"sync"
	"time"

	"github.com/memelab/memelab/internal/domain"
)

// OfflineEntry describes one cached meme served when the upstream feed is
// unavailable or offline mode is requested. File is relative to the offline
// asset prefix.
type OfflineEntry struct {
	ID        string
	Title     string
	File      string
	Author    string
	Ups       int
	CreatedAt time.Time
}

// OfflineCache serves cached memes in deterministic round-robin order. The
// rotation index is process-wide state on the cache instance, guarded by a
// mutex; under concurrent requests the rotation is best-effort
// (last-write-wins), which is an accepted tradeoff rather than a defect.
type OfflineCache struct {
	mu      sync.Mutex
	next    int
	entries []OfflineEntry
	prefix  string
}

// NewOfflineCache creates a cache over the given entries. prefix is the URL
// path under which the offline assets are served (for example
// "/static/offline").
func NewOfflineCache(entries []OfflineEntry, prefix string) *OfflineCache {
	if len(entries) == 0 {
		entries = DefaultOfflineEntries()
	}
	if prefix == "" {
		prefix = "/static/offline"
	}
	return &OfflineCache{
		entries: entries,
		prefix:  strings.TrimRight(prefix, "/"),
	}
}

// Size returns the number of cached entries.
func (c *OfflineCache) Size() int {
	return len(c.entries)
}

// Next returns the next cached meme, advancing the rotation index with
// wrap-around. assetBase is the absolute base URL (scheme://host) used to
// build the image URL.
func (c *OfflineCache) Next(assetBase string) domain.Meme {
	c.mu.Lock()
	entry := c.entries[c.next%len(c.entries)]
	c.next = (c.next + 1) % len(c.entries)
	c.mu.Unlock()

	return domain.Meme{
		ID:        entry.ID,
		Title:     entry.Title,
		ImageURL:  strings.TrimRight(assetBase, "/") + c.prefix + "/" + entry.File,
		Author:    entry.Author,
		Ups:       entry.Ups,
		Permalink: c.prefix + "/" + entry.File,
		CreatedAt: entry.CreatedAt,
	}
}

// DefaultOfflineEntries returns the built-in cache backed by the bundled
// static assets.
func DefaultOfflineEntries() []OfflineEntry {
	stamp := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	return []OfflineEntry{
		{ID: "offline-1", Title: "when the wifi comes back for exactly one bar", File: "wifi-bar.png", Author: "memelab", Ups: 4821, CreatedAt: stamp},
		{ID: "offline-2", Title: "my code in the demo vs my code in review", File: "demo-vs-review.png", Author: "memelab", Ups: 3277, CreatedAt: stamp},
		{ID: "offline-3", Title: "cat discovers the keyboard shortcut for chaos", File: "keyboard-cat.png", Author: "memelab", Ups: 5140, CreatedAt: stamp},
		{ID: "offline-4", Title: "me explaining memes to my grandma", File: "explaining.png", Author: "memelab", Ups: 2960, CreatedAt: stamp},
		{ID: "offline-5", Title: "monday has entered the chat", File: "monday-chat.png", Author: "memelab", Ups: 1873, CreatedAt: stamp},
		{ID: "offline-6", Title: "plot twist: the bug was a feature all along", File: "bug-feature.png", Author: "memelab", Ups: 6055, CreatedAt: stamp},
	}
}
