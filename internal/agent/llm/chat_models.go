package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"

	"github.com/plenarlens/server/internal/agent/model"
	logx "github.com/plenarlens/server/pkg/logger"
)

// Config holds what is needed to build Clients for any key.
type Config struct {
	BaseURL string
	Flash   model.FlashModelConfig
}

// NewDialer returns a Dialer that builds a genai client and the eino flash
// chat model sharing it.
func NewDialer(cfg Config) Dialer {
	return func(ctx context.Context, apiKey string) (*Clients, error) {
		client, err := NewGeminiClient(ctx, apiKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}

		flashCfg := cfg.Flash
		flash, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client:      client,
			Model:       flashCfg.Model,
			Temperature: &flashCfg.Temperature,
			MaxTokens:   &flashCfg.MaxTokens,
		})
		if err != nil {
			logx.Error().Err(err).Msg("Error creating flash model")
			return nil, fmt.Errorf("error creating flash model: %w", err)
		}

		return &Clients{
			Provider: NewGemini(client),
			Flash:    flash,
		}, nil
	}
}
