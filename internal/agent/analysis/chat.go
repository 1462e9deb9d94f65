package analysis

import (
	"context"

	"github.com/plenarlens/server/internal/agent/llm"
	"github.com/plenarlens/server/internal/agent/prompts"
	"github.com/plenarlens/server/internal/bundestag"
)

// ChatRequest prepares the dialogue configuration for doc: the pro tier,
// the role instruction with the truncated text as persistent context, and
// web search for facts outside the document.
func (s *Service) ChatRequest(ctx context.Context, doc *bundestag.Document) (llm.ChatRequest, error) {
	system, err := prompts.RenderChatSystem(promptCtx(ctx, "chat"), info(doc), s.Truncate(doc.Text))
	if err != nil {
		return llm.ChatRequest{}, err
	}
	temp := s.pro.Temperature
	return llm.ChatRequest{
		Model:             s.pro.Model,
		SystemInstruction: system,
		Temperature:       &temp,
		ThinkingBudget:    s.pro.ThinkingBudget,
		WebSearch:         true,
	}, nil
}
