// Package cache holds the client-side label cache: the single source of
// truth for label data shown by the UI. It fetches once per identity
// session, serves cached data on repeated reads, and absorbs optimistic
// local edits from the rest of the app.
package cache

import (
	"context"
	"sync"

	"outpost/auth"
	"outpost/models"
	"outpost/utils"
)

// Fetcher retrieves the label collection from the Outpost backend.
type Fetcher interface {
	FetchLabels(ctx context.Context, token string) ([]models.Label, error)
}

// LabelCache arbitrates between serving cached labels and refetching.
//
// Fetch failures are logged and swallowed: the UI keeps rendering the
// last-known collection and is never interrupted by a transport fault.
// A failed fetch still marks the cache as fetched, so it is not retried
// on the next FetchIfNeeded; only Refresh contacts the backend again.
// Overlapping fetches are not serialized: the last response to land wins.
type LabelCache struct {
	mu         sync.Mutex
	labels     []models.Label
	loading    bool
	hasFetched bool

	provider auth.Provider
	fetcher  Fetcher
}

// NewLabelCache creates an empty cache bound to an identity provider and
// a backend fetcher.
func NewLabelCache(provider auth.Provider, fetcher Fetcher) *LabelCache {
	return &LabelCache{
		provider: provider,
		fetcher:  fetcher,
	}
}

// Bind subscribes the cache to identity changes so a logout wipes it.
func (c *LabelCache) Bind(session *auth.Session) {
	session.Subscribe(c.HandleIdentityChange)
}

// Labels returns a copy of the cached collection in server order.
func (c *LabelCache) Labels() []models.Label {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Label, len(c.labels))
	copy(out, c.labels)
	return out
}

// Loading reports whether a fetch is in flight.
func (c *LabelCache) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// HasFetched reports whether at least one fetch has completed for the
// current identity, successfully or not.
func (c *LabelCache) HasFetched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasFetched
}

// FetchIfNeeded loads labels unless a fetch has already completed for
// this identity session. No-op without an identity. A completed fetch,
// successful or not, settles the cache: repeated calls never contact
// the backend again, only Refresh does.
func (c *LabelCache) FetchIfNeeded(ctx context.Context) {
	if c.provider.Current() == nil {
		return
	}

	c.mu.Lock()
	if c.hasFetched {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.mu.Unlock()

	c.fetch(ctx)
}

// Refresh unconditionally reloads labels from the backend. Callers use it
// after mutating labels against the backend directly, to reconcile the
// cache with authoritative state. No-op without an identity.
func (c *LabelCache) Refresh(ctx context.Context) {
	if c.provider.Current() == nil {
		return
	}

	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	c.fetch(ctx)
}

func (c *LabelCache) fetch(ctx context.Context) {
	token, err := c.provider.Token(ctx)
	if err != nil {
		utils.Log.Error("Label fetch: token acquisition failed: %v", err)
	} else {
		labels, err := c.fetcher.FetchLabels(ctx, token)
		if err != nil {
			utils.Log.Error("Label fetch failed: %v", err)
		} else {
			// Complete replacement, not a merge.
			c.mu.Lock()
			c.labels = labels
			c.mu.Unlock()
		}
	}

	c.mu.Lock()
	c.loading = false
	c.hasFetched = true
	c.mu.Unlock()
}

// RemoveLocal drops the record with the given id from the cached
// collection. Purely local; used for optimistic deletes. Unknown ids are
// a no-op.
func (c *LabelCache) RemoveLocal(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.labels[:0]
	for _, l := range c.labels {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	c.labels = kept
}

// UpdateLocal merges the patch into the record with the given id,
// preserving order and untouched fields. No-op when the id is unknown.
func (c *LabelCache) UpdateLocal(id string, patch models.LabelPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.labels {
		if c.labels[i].ID == id {
			patch.Apply(&c.labels[i])
			return
		}
	}
}

// HandleIdentityChange reacts to the identity signal. Loss of identity
// immediately resets the cache to its initial state; an in-flight fetch
// that completes afterward will still overwrite it (accepted race).
func (c *LabelCache) HandleIdentityChange(user *models.User) {
	if user != nil {
		return
	}

	c.mu.Lock()
	c.labels = nil
	c.hasFetched = false
	c.mu.Unlock()

	utils.Log.Debug("Identity lost, label cache reset")
}
