package bundestag

import (
	"context"
	"errors"
	"sync"

	logx "github.com/plenarlens/server/pkg/logger"
)

var (
	// ErrStale means a newer fresh search started while this request was in flight.
	ErrStale = errors.New("bundestag: result superseded by a newer search")
	// ErrBusy means a load-more request is already running.
	ErrBusy = errors.New("bundestag: a page request is already in flight")
	// ErrNoMorePages means the last page had no cursor.
	ErrNoMorePages = errors.New("bundestag: no more pages")
)

// Searcher is the subset of Client that ResultSet needs.
type Searcher interface {
	Search(ctx context.Context, apiKey string, q Query) (*Page, error)
}

// ResultSet holds the documents accumulated across pages of one query.
// A fresh search bumps the generation so late pages of the previous query
// are dropped instead of being appended.
type ResultSet struct {
	searcher Searcher

	mu       sync.Mutex
	gen      uint64
	query    Query
	docs     []*Document
	seen     map[string]struct{}
	cursor   string
	numFound int
	searched bool
	loading  bool
	// pending is set while a fresh search awaits its first page.
	pending bool
}

func NewResultSet(s Searcher) *ResultSet {
	return &ResultSet{searcher: s, seen: map[string]struct{}{}}
}

// Fresh runs q from the first page and replaces the held documents.
func (r *ResultSet) Fresh(ctx context.Context, apiKey string, q Query) error {
	q.Cursor = ""

	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.query = q
	r.cursor = ""
	r.loading = false
	r.pending = true
	r.mu.Unlock()

	page, err := r.searcher.Search(ctx, apiKey, q)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		logx.Debug().Uint64("generation", gen).Msg("discarding stale search result")
		return ErrStale
	}

	// The error state replaces the previous list.
	r.pending = false
	r.docs = nil
	r.seen = map[string]struct{}{}
	r.cursor = ""
	r.numFound = 0
	r.searched = false
	if err != nil {
		return err
	}

	r.docs = make([]*Document, 0, len(page.Documents))
	r.numFound = page.NumFound
	r.searched = true
	r.appendLocked(page.Documents)
	r.cursor = nextCursor(q.Cursor, page)
	return nil
}

// LoadMore fetches the page after the last one and appends it in server order.
// It is refused with ErrBusy while a fresh search is pending.
func (r *ResultSet) LoadMore(ctx context.Context, apiKey string) error {
	r.mu.Lock()
	if r.pending {
		r.mu.Unlock()
		return ErrBusy
	}
	if r.cursor == "" {
		r.mu.Unlock()
		return ErrNoMorePages
	}
	if r.loading {
		r.mu.Unlock()
		return ErrBusy
	}
	gen := r.gen
	q := r.query
	q.Cursor = r.cursor
	r.loading = true
	r.mu.Unlock()

	page, err := r.searcher.Search(ctx, apiKey, q)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || !sameQuery(q, r.query) {
		logx.Debug().Uint64("generation", gen).Msg("discarding stale page")
		return ErrStale
	}
	r.loading = false
	if err != nil {
		return err
	}

	r.appendLocked(page.Documents)
	r.cursor = nextCursor(q.Cursor, page)
	if page.NumFound > 0 {
		r.numFound = page.NumFound
	}
	return nil
}

func (r *ResultSet) appendLocked(docs []Document) {
	for i := range docs {
		d := &docs[i]
		if _, dup := r.seen[d.ID]; dup {
			continue
		}
		r.seen[d.ID] = struct{}{}
		r.docs = append(r.docs, d)
	}
}

// sameQuery compares filters, ignoring the page cursor.
func sameQuery(a, b Query) bool {
	a.Cursor, b.Cursor = "", ""
	return a == b
}

// nextCursor treats an absent, repeated or empty-page cursor as the end.
func nextCursor(requested string, page *Page) string {
	if page.Cursor == "" || page.Cursor == requested || len(page.Documents) == 0 {
		return ""
	}
	return page.Cursor
}

// Documents returns the held documents in the order they were received.
func (r *ResultSet) Documents() []*Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Document, len(r.docs))
	copy(out, r.docs)
	return out
}

// Find returns the held document with the given id.
func (r *ResultSet) Find(id string) (*Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// CanLoadMore reports whether the last page carried a cursor.
func (r *ResultSet) CanLoadMore() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor != "" && !r.loading && !r.pending
}

// Empty reports a completed fresh search that matched nothing.
func (r *ResultSet) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.searched && len(r.docs) == 0
}

// NumFound is the server-side total for the current query.
func (r *ResultSet) NumFound() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.numFound
}
