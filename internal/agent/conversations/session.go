package conversations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/plenarlens/server/internal/agent/llm"
	"github.com/plenarlens/server/internal/agent/model"
	"github.com/plenarlens/server/internal/bundestag"
	errx "github.com/plenarlens/server/internal/core/error"
	logx "github.com/plenarlens/server/pkg/logger"
)

var (
	// ErrBusy refuses a turn while the previous one awaits its reply.
	ErrBusy = errors.New("conversations: a reply is still pending")
	// ErrStale means the session was discarded while the turn was in flight.
	ErrStale = errors.New("conversations: session was replaced")
	// ErrEmptyMessage refuses blank user input.
	ErrEmptyMessage = errors.New("conversations: message is empty")
)

const (
	missingKeyReply = "Bitte hinterlegen Sie zuerst einen Gemini-API-Schlüssel in den Einstellungen, um Fragen zu diesem Protokoll zu stellen."

	failureReplyFormat = "Entschuldigung, die Anfrage konnte nicht beantwortet werden: %s\n\n" +
		"Mögliche Ursachen:\n" +
		"- Der Gemini-API-Schlüssel ist ungültig oder abgelaufen.\n" +
		"- Das Modell ist gerade überlastet.\n" +
		"- Das Protokoll ist zu lang für den Kontext des Modells.\n\n" +
		"Sie können Ihre Frage gleich noch einmal stellen."
)

// Preparer builds the dialogue configuration for a document.
type Preparer func(ctx context.Context, doc *bundestag.Document) (llm.ChatRequest, error)

// Deps are the collaborators a session needs. APIKey is read on every
// turn so a key saved mid-session is picked up.
type Deps struct {
	APIKey  func() string
	Dial    llm.Dialer
	Prepare Preparer
	// Timeout bounds one turn; zero means no extra deadline.
	Timeout time.Duration
}

// Session is a multi-turn dialogue bound to one document. The model's
// persistent context is document specific, so a session is never rebound.
type Session struct {
	doc  *bundestag.Document
	deps Deps

	mu     sync.Mutex
	state  model.SessionState
	chat   llm.Chat
	turns  []model.Turn
	closed bool
}

func NewSession(doc *bundestag.Document, deps Deps) *Session {
	return &Session{doc: doc, deps: deps, state: model.StateUninitialized}
}

// Submit appends the user turn, asks the model and appends its reply.
// Model and transport failures are turned into a synthesized assistant
// turn; only interface refusals (ErrBusy, ErrEmptyMessage, ErrStale) are
// returned as errors.
func (s *Session) Submit(ctx context.Context, text string) (model.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Turn{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return model.Turn{}, ErrStale
	}
	if s.state == model.StateAwaiting {
		s.mu.Unlock()
		return model.Turn{}, ErrBusy
	}
	s.turns = append(s.turns, model.NewTurn(model.RoleUser, text))

	key := ""
	if s.deps.APIKey != nil {
		key = s.deps.APIKey()
	}
	if key == "" {
		turn := synthetic(missingKeyReply)
		s.turns = append(s.turns, turn)
		if s.state == model.StateUninitialized {
			s.state = model.StateIdle
		}
		s.mu.Unlock()
		logx.Debug().Str("doc_id", s.doc.ID).Msg("chat turn without model key")
		return turn, nil
	}

	s.state = model.StateAwaiting
	chat := s.chat
	s.mu.Unlock()

	if s.deps.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deps.Timeout)
		defer cancel()
	}

	reply, chat, err := s.exchange(ctx, key, chat, text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		logx.Warn().Err(err).Str("doc_id", s.doc.ID).Msg("chat turn failed")
		turn := synthetic(fmt.Sprintf(failureReplyFormat, errx.UserMessage(err)))
		s.turns = append(s.turns, turn)
		s.state = model.StateRecovered
		if s.closed {
			return turn, ErrStale
		}
		return turn, nil
	}

	if !s.closed {
		s.chat = chat
	}
	turn := model.NewTurn(model.RoleAssistant, reply.Answer())
	turn.Thoughts = reply.Thoughts()
	s.turns = append(s.turns, turn)
	s.state = model.StateIdle
	if s.closed {
		return turn, ErrStale
	}
	return turn, nil
}

// exchange creates the dialogue handle on first use and sends text.
func (s *Session) exchange(ctx context.Context, key string, chat llm.Chat, text string) (*model.Reply, llm.Chat, error) {
	if chat == nil {
		var err error
		if chat, err = s.open(ctx, key); err != nil {
			return nil, nil, err
		}
	}
	reply, err := chat.Send(ctx, text)
	if err != nil {
		// Keep the handle: the dialogue itself is still valid.
		s.mu.Lock()
		if !s.closed {
			s.chat = chat
		}
		s.mu.Unlock()
		return nil, nil, errx.Model(err)
	}
	return reply, chat, nil
}

func (s *Session) open(ctx context.Context, key string) (llm.Chat, error) {
	req, err := s.deps.Prepare(ctx, s.doc)
	if err != nil {
		return nil, err
	}
	clients, err := s.deps.Dial(ctx, key)
	if err != nil {
		return nil, errx.Model(err)
	}
	chat, err := clients.Provider.NewChat(ctx, req)
	if err != nil {
		return nil, errx.Model(err)
	}
	logx.Debug().Str("doc_id", s.doc.ID).Str("model", req.Model).Msg("chat session created")
	return chat, nil
}

func synthetic(text string) model.Turn {
	t := model.NewTurn(model.RoleAssistant, text)
	t.Synthetic = true
	return t
}

// DocumentID is the id of the bound document.
func (s *Session) DocumentID() string {
	return s.doc.ID
}

// Document is the bound document.
func (s *Session) Document() *bundestag.Document {
	return s.doc
}

// Turns returns a copy of the history in insertion order.
func (s *Session) Turns() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// State is the current activity state.
func (s *Session) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// close marks the session discarded; in-flight replies then report ErrStale.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.chat = nil
}
