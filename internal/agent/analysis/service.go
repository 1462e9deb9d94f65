// Package analysis implements the three language-model operations on a
// transcript: fast summary, deep analysis and key verification.
package analysis

import (
	"context"

	"github.com/plenarlens/server/internal/agent/model"
	"github.com/plenarlens/server/internal/agent/observers"
	"github.com/plenarlens/server/internal/agent/prompts"
	"github.com/plenarlens/server/internal/bundestag"
)

// CredentialName is the user-facing name of the model API key.
const CredentialName = "Gemini-API-Schlüssel"

// Service holds the tier configuration. It keeps no per-call state, so the
// operations are independent of each other.
type Service struct {
	flash model.FlashModelConfig
	pro   model.ProModelConfig
	cfg   model.AnalysisConfig
}

func NewService(flash model.FlashModelConfig, pro model.ProModelConfig, cfg model.AnalysisConfig) *Service {
	return &Service{flash: flash, pro: pro, cfg: cfg.Normalize()}
}

// Config returns the normalized limits.
func (s *Service) Config() model.AnalysisConfig {
	return s.cfg
}

// Truncate applies the configured ceiling.
func (s *Service) Truncate(text string) string {
	return Truncate(text, s.cfg.MaxChars)
}

func info(doc *bundestag.Document) prompts.DocumentInfo {
	return prompts.DocumentInfo{
		Title:  doc.Title,
		Number: doc.Number,
		Date:   doc.Date,
		Period: doc.Period,
	}
}

func promptCtx(ctx context.Context, name string) context.Context {
	return observers.WithPromptRun(ctx, name)
}
