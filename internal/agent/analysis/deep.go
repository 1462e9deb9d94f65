package analysis

import (
	"context"
	"errors"

	"github.com/plenarlens/server/internal/agent/llm"
	"github.com/plenarlens/server/internal/agent/prompts"
	"github.com/plenarlens/server/internal/bundestag"
	"github.com/plenarlens/server/internal/cache"
	errx "github.com/plenarlens/server/internal/core/error"
	logx "github.com/plenarlens/server/pkg/logger"
)

var errEmptyAnalysis = errors.New("analysis: model returned no answer")

// DeepAnalyze runs the structured analysis on the pro tier with reasoning
// enabled. Unlike Summarize, failures are returned to the caller.
func (s *Service) DeepAnalyze(ctx context.Context, c *llm.Clients, doc *bundestag.Document) (*cache.DeepAnalysis, error) {
	if c == nil || c.Provider == nil {
		return nil, errx.Credential(CredentialName)
	}

	system, err := prompts.RenderAnalysisSystem(promptCtx(ctx, "analysis"), info(doc))
	if err != nil {
		return nil, err
	}

	temp := s.pro.Temperature
	reply, err := c.Provider.Generate(ctx, llm.GenerateRequest{
		Model:             s.pro.Model,
		SystemInstruction: system,
		Prompt:            s.Truncate(doc.Text),
		Temperature:       &temp,
		ThinkingBudget:    s.pro.ThinkingBudget,
	})
	if err != nil {
		logx.Error().Err(err).Str("doc_id", doc.ID).Msg("deep analysis failed")
		return nil, errx.Model(err)
	}

	answer := reply.Answer()
	if answer == "" {
		return nil, errx.Model(errEmptyAnalysis)
	}
	return &cache.DeepAnalysis{
		Text:     answer,
		Thoughts: reply.Thoughts(),
	}, nil
}
