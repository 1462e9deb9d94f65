package bundestag

import "time"

const (
	// DefaultBaseURL is the public DIP endpoint.
	DefaultBaseURL = "https://search.dip.bundestag.de/api/v1"
	// DefaultProxyURL receives the url-encoded target appended verbatim.
	DefaultProxyURL = "https://corsproxy.io/?"
	// PageSize is fixed by the application; the API allows up to 100.
	PageSize = 20
)

// Config is bound from DIP_* variables.
type Config struct {
	BaseURL  string        `envconfig:"DIP_BASE_URL" default:"https://search.dip.bundestag.de/api/v1"`
	ProxyURL string        `envconfig:"DIP_PROXY_URL" default:"https://corsproxy.io/?"`
	Timeout  time.Duration `envconfig:"DIP_TIMEOUT" default:"30s"`
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.ProxyURL == "" {
		c.ProxyURL = DefaultProxyURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}
