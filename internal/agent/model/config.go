package model

import "time"

// ================ Config ================

// Tier names a model capability level.
type Tier string

const (
	TierFlash Tier = "flash"
	TierPro   Tier = "pro"
)

// FlashModelConfig configures the fast tier used for summaries.
type FlashModelConfig struct {
	Model       string  `envconfig:"FLASH_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"FLASH_MAX_TOKENS" default:"4096"`
	Temperature float32 `envconfig:"FLASH_TEMPERATURE" default:"0.2"`
}

// ProModelConfig configures the high-capability tier used for deep analysis and chat.
type ProModelConfig struct {
	Model          string  `envconfig:"PRO_MODEL" default:"gemini-2.5-pro"`
	Temperature    float32 `envconfig:"PRO_TEMPERATURE" default:"0.4"`
	ThinkingBudget int32   `envconfig:"PRO_THINKING_BUDGET" default:"8192"`
}

// AnalysisConfig holds the limits shared by all operations.
type AnalysisConfig struct {
	MaxChars      int           `envconfig:"ANALYSIS_MAX_CHARS" default:"1500000"`
	Timeout       time.Duration `envconfig:"ANALYSIS_TIMEOUT" default:"180s"`
	ChatTimeout   time.Duration `envconfig:"CHAT_TIMEOUT" default:"180s"`
	VerifyTimeout time.Duration `envconfig:"VERIFY_TIMEOUT" default:"30s"`
	// VerifyPeriod is the legislative period used for the document key probe.
	VerifyPeriod int `envconfig:"VERIFY_PERIOD" default:"21"`
}

// DefaultMaxChars is the truncation ceiling used when none is configured.
const DefaultMaxChars = 1_500_000

// Normalize fills zero values with the documented defaults.
func (c AnalysisConfig) Normalize() AnalysisConfig {
	if c.MaxChars <= 0 {
		c.MaxChars = DefaultMaxChars
	}
	if c.Timeout <= 0 {
		c.Timeout = 180 * time.Second
	}
	if c.ChatTimeout <= 0 {
		c.ChatTimeout = 180 * time.Second
	}
	if c.VerifyTimeout <= 0 {
		c.VerifyTimeout = 30 * time.Second
	}
	if c.VerifyPeriod <= 0 {
		c.VerifyPeriod = 21
	}
	return c
}
