package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/plenarlens/server/internal/agent/model"
	"github.com/plenarlens/server/internal/bundestag"
	"github.com/plenarlens/server/internal/cli"
	"github.com/plenarlens/server/internal/core"
	"github.com/plenarlens/server/internal/credentials"
	logx "github.com/plenarlens/server/pkg/logger"
	pkgredis "github.com/plenarlens/server/pkg/redis"
)

// AppConfig defines all configurable parameters, sourced from environment
// variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis       pkgredis.Config
	Credentials credentials.Config

	// Seed keys; values saved through `plenar keys set` take precedence.
	BundestagAPIKey string `envconfig:"BUNDESTAG_API_KEY"`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	GeminiBaseURL   string `envconfig:"GEMINI_BASE_URL"`

	DIP      bundestag.Config
	Flash    model.FlashModelConfig
	Pro      model.ProModelConfig
	Analysis model.AnalysisConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is normal outside local development.
	_ = godotenv.Load(".env")

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Init()
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment})

	store, closeStore, err := credentials.Open(ctx, cfg.Credentials, cfg.Redis)
	if err != nil {
		logx.Fatal().Err(err).Str("backend", cfg.Credentials.Backend).Msg("failed to open credential store")
	}
	defer closeStore()

	keys, err := credentials.Load(ctx, store, credentials.Keys{
		Bundestag: cfg.BundestagAPIKey,
		Gemini:    cfg.GeminiAPIKey,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load credentials")
	}

	ws := workspace(cfg, keys)
	app := &cli.App{Workspace: ws, Keys: keys, Environment: cfg.Environment}
	if err := cli.Execute(ctx, app, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		closeStore()
		os.Exit(1)
	}
}
