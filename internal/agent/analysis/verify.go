package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/plenarlens/server/internal/agent/llm"
	"github.com/plenarlens/server/internal/agent/model"
	errx "github.com/plenarlens/server/internal/core/error"
	logx "github.com/plenarlens/server/pkg/logger"
)

const probePrompt = "Antworte nur mit OK."

// KeyStatus is the per-tier reachability of the model API for one key.
// Message describes the most recent failure and is empty when all passed.
type KeyStatus struct {
	Flash   bool
	Pro     bool
	Message string
}

// VerifyKey probes both tiers concurrently and reports the joined result.
// It never returns an error: failures become false tiers plus one message.
func (s *Service) VerifyKey(ctx context.Context, dial llm.Dialer, apiKey string) KeyStatus {
	if apiKey == "" {
		return KeyStatus{Message: errx.UserMessage(errx.Credential(CredentialName))}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.VerifyTimeout)
	defer cancel()

	clients, err := dial(ctx, apiKey)
	if err != nil || clients == nil || clients.Provider == nil {
		logx.Warn().Err(err).Msg("model client unavailable; all tiers unreachable")
		return KeyStatus{Message: "Verbindung zur Gemini-API nicht möglich."}
	}

	var (
		mu     sync.Mutex
		status KeyStatus
		g      errgroup.Group
	)
	probe := func(tier model.Tier, modelName string, ok *bool) func() error {
		return func() error {
			_, err := clients.Provider.Generate(ctx, llm.GenerateRequest{
				Model:  modelName,
				Prompt: probePrompt,
			})
			// An empty candidate still proves the key was accepted.
			if err != nil && !errors.Is(err, llm.ErrEmptyResponse) {
				logx.Warn().Err(err).Str("tier", string(tier)).Str("model", modelName).Msg("tier probe failed")
				mu.Lock()
				status.Message = fmt.Sprintf("%s (%s): %s", modelName, tier, errx.UserMessage(errx.Model(err)))
				mu.Unlock()
				return nil
			}
			mu.Lock()
			*ok = true
			mu.Unlock()
			return nil
		}
	}
	g.Go(probe(model.TierFlash, s.flash.Model, &status.Flash))
	g.Go(probe(model.TierPro, s.pro.Model, &status.Pro))
	_ = g.Wait()

	return status
}
