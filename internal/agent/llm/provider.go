package llm

import (
	"context"

	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/plenarlens/server/internal/agent/model"
)

// GenerateRequest is a single-shot generation against one model.
type GenerateRequest struct {
	Model             string
	SystemInstruction string
	Prompt            string
	Temperature       *float32
	MaxOutputTokens   int32
	// ThinkingBudget > 0 asks the model to return its reasoning separately.
	ThinkingBudget int32
}

// ChatRequest configures a multi-turn dialogue.
type ChatRequest struct {
	Model             string
	SystemInstruction string
	Temperature       *float32
	ThinkingBudget    int32
	// WebSearch lets the model look up facts outside the document.
	WebSearch bool
}

// Provider is the language-model API as seen by the analysis operations.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (*model.Reply, error)
	NewChat(ctx context.Context, req ChatRequest) (Chat, error)
}

// Chat is a dialogue handle that keeps its own history.
type Chat interface {
	Send(ctx context.Context, text string) (*model.Reply, error)
}

// Clients bundles the model handles built for one API key.
type Clients struct {
	Provider Provider
	// Flash is the fast tier as an eino chat model.
	Flash einomodel.BaseChatModel
}

// Dialer builds Clients for a key. Implementations must not perform
// network I/O so that building clients never fails for reachability.
type Dialer func(ctx context.Context, apiKey string) (*Clients, error)
