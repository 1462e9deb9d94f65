package analysis

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/plenarlens/server/internal/agent/llm"
	"github.com/plenarlens/server/internal/agent/observers"
	"github.com/plenarlens/server/internal/agent/prompts"
	"github.com/plenarlens/server/internal/bundestag"
	errx "github.com/plenarlens/server/internal/core/error"
	logx "github.com/plenarlens/server/pkg/logger"
)

// SummaryUnavailable is shown instead of a summary when generation fails.
const SummaryUnavailable = "Die Zusammenfassung konnte nicht erstellt werden."

var errEmptySummary = errors.New("analysis: model returned an empty summary")

// Summarize returns a short summary of doc or SummaryUnavailable. It never fails.
func (s *Service) Summarize(ctx context.Context, c *llm.Clients, doc *bundestag.Document) string {
	text, err := s.TrySummarize(ctx, c, doc)
	if err != nil {
		logx.Warn().Err(err).Str("doc_id", doc.ID).Msg("summary unavailable")
		return SummaryUnavailable
	}
	return text
}

// TrySummarize is Summarize with the error exposed, so callers can keep
// the placeholder out of the cache.
func (s *Service) TrySummarize(ctx context.Context, c *llm.Clients, doc *bundestag.Document) (string, error) {
	if c == nil || c.Flash == nil {
		return "", errx.Credential(CredentialName)
	}

	system, err := prompts.RenderSummarySystem(promptCtx(ctx, "summary"), info(doc))
	if err != nil {
		return "", err
	}
	msgs := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(s.Truncate(doc.Text)),
	}

	resp, err := c.Flash.Generate(observers.WithChatModelRun(ctx, "fast_summary"), msgs)
	if err != nil {
		return "", errx.Model(err)
	}
	out := ""
	if resp != nil {
		out = strings.TrimSpace(resp.Content)
	}
	if out == "" {
		return "", errx.Model(errEmptySummary)
	}

	logx.Debug().Str("doc_id", doc.ID).Int("chars", len([]rune(out))).Msg("summary generated")
	return out, nil
}
