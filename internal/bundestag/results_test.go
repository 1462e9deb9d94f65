package bundestag

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedSearcher serves pages of size PageSize keyed by cursor.
type pagedSearcher struct {
	mu      sync.Mutex
	pages   map[string]*Page
	queries []Query
	// block, when set, is waited on before answering the given cursor.
	block map[string]chan struct{}
}

func (s *pagedSearcher) Search(_ context.Context, _ string, q Query) (*Page, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	wait := s.block[q.Cursor]
	s.mu.Unlock()
	if wait != nil {
		<-wait
	}
	p, ok := s.pages[q.Cursor]
	if !ok {
		return nil, fmt.Errorf("unexpected cursor %q", q.Cursor)
	}
	return p, nil
}

func makeDocs(prefix string, n int) []Document {
	docs := make([]Document, n)
	for i := range docs {
		docs[i] = Document{ID: fmt.Sprintf("%s-%02d", prefix, i), Dokumentart: "Plenarprotokoll"}
	}
	return docs
}

func ids(docs []*Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestResultSet_FreshThenLoadMore(t *testing.T) {
	s := &pagedSearcher{pages: map[string]*Page{
		"":   {NumFound: 45, Cursor: "p2", Documents: makeDocs("a", PageSize)},
		"p2": {NumFound: 45, Cursor: "p3", Documents: makeDocs("b", PageSize)},
	}}
	rs := NewResultSet(s)

	require.NoError(t, rs.Fresh(context.Background(), "key", Query{Period: 21}))
	assert.Len(t, rs.Documents(), 20)
	assert.True(t, rs.CanLoadMore())

	require.NoError(t, rs.LoadMore(context.Background(), "key"))

	got := ids(rs.Documents())
	require.Len(t, got, 40)
	assert.Equal(t, "a-00", got[0])
	assert.Equal(t, "a-19", got[19])
	assert.Equal(t, "b-00", got[20])
	assert.Equal(t, "b-19", got[39])

	seen := map[string]bool{}
	for _, id := range got {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}

	require.Len(t, s.queries, 2)
	assert.Equal(t, "", s.queries[0].Cursor)
	assert.Equal(t, "p2", s.queries[1].Cursor)
	assert.Equal(t, 21, s.queries[1].Period)
}

func TestResultSet_FreshReplaces(t *testing.T) {
	s := &pagedSearcher{pages: map[string]*Page{
		"":   {NumFound: 40, Cursor: "p2", Documents: makeDocs("a", PageSize)},
		"p2": {NumFound: 40, Cursor: "p3", Documents: makeDocs("b", PageSize)},
	}}
	rs := NewResultSet(s)
	ctx := context.Background()

	require.NoError(t, rs.Fresh(ctx, "key", Query{Period: 21}))
	require.NoError(t, rs.LoadMore(ctx, "key"))
	require.Len(t, rs.Documents(), 40)

	require.NoError(t, rs.Fresh(ctx, "key", Query{Period: 21, Cursor: "ignored"}))
	assert.Len(t, rs.Documents(), 20)
	assert.Equal(t, "", s.queries[2].Cursor, "fresh search clears the cursor")
}

func TestResultSet_NoCursorDisablesLoadMore(t *testing.T) {
	s := &pagedSearcher{pages: map[string]*Page{
		"": {NumFound: 3, Documents: makeDocs("a", 3)},
	}}
	rs := NewResultSet(s)

	require.NoError(t, rs.Fresh(context.Background(), "key", Query{Period: 21}))
	assert.False(t, rs.CanLoadMore())
	assert.ErrorIs(t, rs.LoadMore(context.Background(), "key"), ErrNoMorePages)
	assert.Len(t, s.queries, 1)
}

func TestResultSet_RepeatedCursorEndsPaging(t *testing.T) {
	s := &pagedSearcher{pages: map[string]*Page{
		"":   {NumFound: 21, Cursor: "p2", Documents: makeDocs("a", PageSize)},
		"p2": {NumFound: 21, Cursor: "p2", Documents: makeDocs("b", 1)},
	}}
	rs := NewResultSet(s)
	ctx := context.Background()

	require.NoError(t, rs.Fresh(ctx, "key", Query{Period: 21}))
	require.NoError(t, rs.LoadMore(ctx, "key"))
	assert.Len(t, rs.Documents(), 21)
	assert.False(t, rs.CanLoadMore())
}

func TestResultSet_EmptyIsNotAnError(t *testing.T) {
	s := &pagedSearcher{pages: map[string]*Page{
		"": {NumFound: 0, Documents: []Document{}},
	}}
	rs := NewResultSet(s)

	assert.False(t, rs.Empty(), "nothing searched yet")
	require.NoError(t, rs.Fresh(context.Background(), "key", Query{Period: 21, Title: "gibt es nicht"}))
	assert.True(t, rs.Empty())
}

func TestResultSet_FreshDiscardsInFlightLoadMore(t *testing.T) {
	release := make(chan struct{})
	s := &pagedSearcher{
		pages: map[string]*Page{
			"":   {NumFound: 40, Cursor: "p2", Documents: makeDocs("a", PageSize)},
			"p2": {NumFound: 40, Cursor: "p3", Documents: makeDocs("b", PageSize)},
		},
		block: map[string]chan struct{}{},
	}
	rs := NewResultSet(s)
	ctx := context.Background()
	require.NoError(t, rs.Fresh(ctx, "key", Query{Period: 21}))

	s.mu.Lock()
	s.block["p2"] = release
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- rs.LoadMore(ctx, "key") }()

	// Wait until the load-more request is in flight.
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.queries) == 2
	}, timeout, tick)

	assert.ErrorIs(t, rs.LoadMore(ctx, "key"), ErrBusy)

	require.NoError(t, rs.Fresh(ctx, "key", Query{Period: 20}))
	close(release)

	assert.ErrorIs(t, <-done, ErrStale)
	got := ids(rs.Documents())
	assert.Len(t, got, 20)
	assert.Equal(t, "a-00", got[0])
	assert.True(t, rs.CanLoadMore())
}

func TestResultSet_LoadMoreDuringFreshSearch(t *testing.T) {
	release := make(chan struct{})
	s := &pagedSearcher{
		pages: map[string]*Page{
			"":   {NumFound: 40, Cursor: "p2", Documents: makeDocs("a", PageSize)},
			"p2": {NumFound: 40, Cursor: "p3", Documents: makeDocs("b", PageSize)},
		},
		block: map[string]chan struct{}{},
	}
	rs := NewResultSet(s)
	ctx := context.Background()
	require.NoError(t, rs.Fresh(ctx, "key", Query{Period: 21}))

	s.mu.Lock()
	s.block[""] = release
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- rs.Fresh(ctx, "key", Query{Period: 20}) }()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.queries) == 2
	}, timeout, tick)

	assert.False(t, rs.CanLoadMore())
	assert.ErrorIs(t, rs.LoadMore(ctx, "key"), ErrBusy)

	close(release)
	require.NoError(t, <-done)

	got := ids(rs.Documents())
	assert.Len(t, got, 20)
	s.mu.Lock()
	assert.Len(t, s.queries, 2, "no page of the previous query was requested")
	s.mu.Unlock()
	assert.True(t, rs.CanLoadMore())
}
