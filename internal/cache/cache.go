// Package cache keeps the AI artifacts computed for each document during
// one process lifetime.
package cache

import "sync"

// DeepAnalysis is the result of the deep analysis operation.
type DeepAnalysis struct {
	Text     string `json:"text"`
	Thoughts string `json:"thoughts,omitempty"`
}

// Entry holds the artifacts of one document. A nil field is absent.
type Entry struct {
	Summary *string
	Deep    *DeepAnalysis
}

// Empty reports whether no artifact is present.
func (e Entry) Empty() bool {
	return e.Summary == nil && e.Deep == nil
}

// Analysis is the process-wide artifact store. Entries are never evicted.
type Analysis struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func New() *Analysis {
	return &Analysis{entries: map[string]Entry{}}
}

// Get returns a copy of the entry for id. Changing the returned values
// does not affect the cache.
func (c *Analysis) Get(id string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	if !ok {
		return Entry{}, false
	}
	var out Entry
	if e.Summary != nil {
		s := *e.Summary
		out.Summary = &s
	}
	if e.Deep != nil {
		d := *e.Deep
		out.Deep = &d
	}
	return out, true
}

// Merge overwrites the fields present in partial and keeps the others.
func (c *Analysis) Merge(id string, partial Entry) {
	if partial.Empty() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.entries[id]
	if partial.Summary != nil {
		s := *partial.Summary
		cur.Summary = &s
	}
	if partial.Deep != nil {
		d := *partial.Deep
		cur.Deep = &d
	}
	c.entries[id] = cur
}

// Len is the number of documents with at least one artifact.
func (c *Analysis) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Summary is a convenience for building a partial entry.
func Summary(s string) Entry {
	return Entry{Summary: &s}
}

// Deep is a convenience for building a partial entry.
func Deep(d DeepAnalysis) Entry {
	return Entry{Deep: &d}
}
