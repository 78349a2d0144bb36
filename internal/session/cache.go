package session

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gosift/domain/core"
	"gosift/domain/filter"
	"gosift/domain/profile"
	"gosift/domain/table"
)

// Entry holds one loaded dataset and the artifacts derived from it.
// The inventory and missing-value report are computed once at load time;
// per-selection results are memoized on demand.
type Entry struct {
	Token      core.DatasetToken
	SourceName string
	Table      *table.Table
	ChangeLog  []string
	Inventory  []profile.ColumnInfo
	Missing    []profile.Entry
	LoadedAt   time.Time

	mu      sync.RWMutex
	derived map[core.SelectionHash]*Derived
}

// Derived memoizes everything computed for one filter selection.
type Derived struct {
	View       *filter.View
	Sampled    *filter.View
	Summary    *table.Table
	Notes      []filter.Note
	ComputedAt time.Time
}

// NewEntry builds a cache entry for an inferred table, profiling it up
// front so repeated dashboard reads never recompute the load-time work.
func NewEntry(token core.DatasetToken, sourceName string, t *table.Table, changeLog []string) *Entry {
	return &Entry{
		Token:      token,
		SourceName: sourceName,
		Table:      t,
		ChangeLog:  changeLog,
		Inventory:  profile.Inventory(t),
		Missing:    profile.MissingValues(t),
		LoadedAt:   time.Now(),
		derived:    make(map[core.SelectionHash]*Derived),
	}
}

// Derived returns the memoized result for a selection, if present.
func (e *Entry) Derived(hash core.SelectionHash) (*Derived, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.derived[hash]
	return d, ok
}

// PutDerived memoizes the result for a selection.
func (e *Entry) PutDerived(hash core.SelectionHash, d *Derived) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.derived[hash] = d
}

// Cache holds loaded datasets keyed by identity token. Because the token
// derives from the source name, loading a file with a cached name
// replaces that entry, and a failed load leaves the previous entry
// serving reads.
type Cache struct {
	mu      sync.RWMutex
	entries map[core.DatasetToken]*Entry
	group   singleflight.Group
}

// NewCache creates an empty session cache
func NewCache() *Cache {
	return &Cache{entries: make(map[core.DatasetToken]*Entry)}
}

// Get returns the entry for token, if loaded.
func (c *Cache) Get(token core.DatasetToken) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[token]
	return e, ok
}

// Put stores an entry, replacing any previous one for the same token.
func (c *Cache) Put(e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.Token] = e
}

// Remove drops the entry for token.
func (c *Cache) Remove(token core.DatasetToken) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
}

// Tokens lists the loaded tokens in stable order.
func (c *Cache) Tokens() []core.DatasetToken {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tokens := make([]core.DatasetToken, 0, len(c.entries))
	for token := range c.entries {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	return tokens
}

// Len reports how many datasets are loaded.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// LoadOrStore returns the cached entry for token, running load once to
// build it when absent. Concurrent callers for the same token share a
// single load.
func (c *Cache) LoadOrStore(token core.DatasetToken, load func() (*Entry, error)) (*Entry, error) {
	if e, ok := c.Get(token); ok {
		return e, nil
	}

	v, err, _ := c.group.Do(token.String(), func() (interface{}, error) {
		if e, ok := c.Get(token); ok {
			return e, nil
		}
		e, err := load()
		if err != nil {
			return nil, err
		}
		c.Put(e)
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entry), nil
}

// Reload always rebuilds the entry for token, replacing the cached one
// on success. On failure the previous entry stays valid, so a bad upload
// cannot wipe a working session.
func (c *Cache) Reload(token core.DatasetToken, load func() (*Entry, error)) (*Entry, error) {
	e, err := load()
	if err != nil {
		return nil, err
	}
	c.Put(e)
	return e, nil
}
