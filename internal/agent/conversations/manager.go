package conversations

import (
	"sync"

	"github.com/plenarlens/server/internal/bundestag"
	logx "github.com/plenarlens/server/pkg/logger"
)

// Manager owns the single active session of the application.
type Manager struct {
	deps Deps

	mu     sync.Mutex
	active *Session
}

func NewManager(deps Deps) *Manager {
	return &Manager{deps: deps}
}

// Bind returns the session for doc, replacing the active session when the
// document differs. The replacement starts uninitialized; its dialogue is
// created on the first submitted turn.
func (m *Manager) Bind(doc *bundestag.Document) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil && m.active.DocumentID() == doc.ID {
		return m.active
	}
	if m.active != nil {
		logx.Debug().
			Str("from_doc", m.active.DocumentID()).
			Str("to_doc", doc.ID).
			Msg("discarding chat session")
		m.active.close()
	}
	m.active = NewSession(doc, m.deps)
	return m.active
}

// Active returns the current session or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Reset discards the active session.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil {
		m.active.close()
		m.active = nil
	}
}
