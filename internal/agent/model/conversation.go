package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a document conversation. Turns are append-only.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Thoughts  string    `json:"thoughts,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	// Synthetic marks assistant turns produced locally to explain a failure.
	Synthetic bool `json:"synthetic,omitempty"`
}

// NewTurn stamps a turn with a fresh id and the current time.
func NewTurn(role Role, text string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// SessionState is the activity state of a conversation session.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateIdle
	StateAwaiting
	StateRecovered
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "active-idle"
	case StateAwaiting:
		return "awaiting-response"
	case StateRecovered:
		return "error-recovered"
	}
	return "unknown"
}
