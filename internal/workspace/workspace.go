// Package workspace ties retrieval, the analysis cache, the analysis
// operations and the chat session together for one browsing session.
package workspace

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/plenarlens/server/internal/agent/analysis"
	"github.com/plenarlens/server/internal/agent/conversations"
	"github.com/plenarlens/server/internal/agent/llm"
	"github.com/plenarlens/server/internal/bundestag"
	"github.com/plenarlens/server/internal/cache"
	"github.com/plenarlens/server/internal/credentials"
	errx "github.com/plenarlens/server/internal/core/error"
)

var (
	// ErrStale means the selection changed while the operation was in flight.
	ErrStale = errors.New("workspace: selected document changed")
	// ErrNoSelection means no document is selected.
	ErrNoSelection = errors.New("workspace: no document selected")
)

// Options are the collaborators of a Workspace.
type Options struct {
	Documents *bundestag.Client
	Keys      *credentials.Holder
	Analysis  *analysis.Service
	Cache     *cache.Analysis
	Dial      llm.Dialer
}

// Workspace is the application state of one user session.
type Workspace struct {
	docs     *bundestag.Client
	results  *bundestag.ResultSet
	keys     *credentials.Holder
	analysis *analysis.Service
	cache    *cache.Analysis
	chats    *conversations.Manager
	dial     llm.Dialer
	inflight singleflight.Group

	mu       sync.Mutex
	selected *bundestag.Document
	token    uint64

	clientsMu  sync.Mutex
	clientsKey string
	clients    *llm.Clients
}

func New(o Options) *Workspace {
	w := &Workspace{
		docs:     o.Documents,
		results:  bundestag.NewResultSet(o.Documents),
		keys:     o.Keys,
		analysis: o.Analysis,
		cache:    o.Cache,
		dial:     o.Dial,
	}
	w.chats = conversations.NewManager(conversations.Deps{
		APIKey:  o.Keys.Gemini,
		Dial:    o.Dial,
		Prepare: o.Analysis.ChatRequest,
		Timeout: o.Analysis.Config().ChatTimeout,
	})
	return w
}

// Results is the held search result set.
func (w *Workspace) Results() *bundestag.ResultSet {
	return w.results
}

// Cache is the process-wide analysis cache.
func (w *Workspace) Cache() *cache.Analysis {
	return w.cache
}

// Search starts a fresh search and replaces the held results.
func (w *Workspace) Search(ctx context.Context, q bundestag.Query) error {
	return w.results.Fresh(ctx, w.keys.Bundestag(), q)
}

// LoadMore appends the next page of the current search.
func (w *Workspace) LoadMore(ctx context.Context) error {
	return w.results.LoadMore(ctx, w.keys.Bundestag())
}

// Open selects a held document, fetching it when it is unknown or was
// returned without text.
func (w *Workspace) Open(ctx context.Context, id string) (*bundestag.Document, error) {
	doc, ok := w.results.Find(id)
	if !ok || doc.Text == "" {
		fetched, err := w.docs.Get(ctx, w.keys.Bundestag(), id)
		if err != nil {
			return nil, err
		}
		doc = fetched
	}
	w.Select(doc)
	return doc, nil
}

// Select makes doc current. A different document discards the chat session.
func (w *Workspace) Select(doc *bundestag.Document) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil || w.selected.ID != doc.ID {
		w.token++
	}
	w.selected = doc
	w.chats.Bind(doc)
}

// Selected returns the current document or nil.
func (w *Workspace) Selected() *bundestag.Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

func (w *Workspace) current() (*bundestag.Document, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil {
		return nil, 0, ErrNoSelection
	}
	return w.selected, w.token, nil
}

// session returns the chat session of the selected document. Binding
// happens under the selection lock so a concurrent Select cannot be undone.
func (w *Workspace) session() (*conversations.Session, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil {
		return nil, 0, ErrNoSelection
	}
	return w.chats.Bind(w.selected), w.token, nil
}

func (w *Workspace) isCurrent(token uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.token == token
}

// modelClients returns the clients for the current model key, rebuilding
// them when the key changed.
func (w *Workspace) modelClients(ctx context.Context) (*llm.Clients, error) {
	key := w.keys.Gemini()
	if key == "" {
		return nil, errx.Credential(analysis.CredentialName)
	}
	w.clientsMu.Lock()
	defer w.clientsMu.Unlock()
	if w.clients != nil && w.clientsKey == key {
		return w.clients, nil
	}
	c, err := w.dial(ctx, key)
	if err != nil {
		return nil, errx.Model(err)
	}
	w.clients, w.clientsKey = c, key
	return c, nil
}
