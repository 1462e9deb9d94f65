package main

import (
	"github.com/plenarlens/server/internal/agent/analysis"
	"github.com/plenarlens/server/internal/agent/llm"
	"github.com/plenarlens/server/internal/bundestag"
	"github.com/plenarlens/server/internal/cache"
	"github.com/plenarlens/server/internal/credentials"
	ws "github.com/plenarlens/server/internal/workspace"
)

// workspace wires the process-wide collaborators. Nothing here touches the
// network; clients for the model API are built per key on first use.
func workspace(cfg AppConfig, keys *credentials.Holder) *ws.Workspace {
	return ws.New(ws.Options{
		Documents: bundestag.NewClient(cfg.DIP, nil),
		Keys:      keys,
		Analysis:  analysis.NewService(cfg.Flash, cfg.Pro, cfg.Analysis),
		Cache:     cache.New(),
		Dial: llm.NewDialer(llm.Config{
			BaseURL: cfg.GeminiBaseURL,
			Flash:   cfg.Flash,
		}),
	})
}
