package bundestag

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	errx "github.com/plenarlens/server/internal/core/error"
	logx "github.com/plenarlens/server/pkg/logger"
)

const (
	maxBodyBytes  = 64 << 20
	maxErrSnippet = 200
)

// Fetcher issues authenticated GET requests and returns the raw JSON body.
type Fetcher interface {
	Fetch(ctx context.Context, target, apiKey string) ([]byte, error)
}

// Transport fetches directly and falls back to a forwarding proxy when the
// direct request does not reach the server. At most two attempts are made.
type Transport struct {
	client   *http.Client
	proxyURL string
}

// NewTransport builds a transport with the configured per-attempt timeout.
func NewTransport(cfg Config) *Transport {
	cfg = cfg.withDefaults()
	return &Transport{
		client:   &http.Client{Timeout: cfg.Timeout},
		proxyURL: cfg.ProxyURL,
	}
}

// NewTransportWithClient is used by tests to inject an httptest client.
func NewTransportWithClient(client *http.Client, proxyURL string) *Transport {
	return &Transport{client: client, proxyURL: proxyURL}
}

// Fetch appends apiKey as the apikey query parameter and GETs target.
// A non-2xx status from either path is returned as an API error and is
// never retried.
func (t *Transport) Fetch(ctx context.Context, target, apiKey string) ([]byte, error) {
	signed, err := withAPIKey(target, apiKey)
	if err != nil {
		return nil, err
	}

	body, err := t.get(ctx, signed)
	if err == nil || errx.IsKind(err, errx.KindAPI) {
		return body, err
	}
	if ctx.Err() != nil {
		return nil, errx.Network(ctx.Err())
	}

	logx.Warn().Err(err).Str("target", redact(target)).Msg("direct request failed; retrying via proxy")

	proxied := t.proxyURL + url.QueryEscape(signed)
	body, perr := t.get(ctx, proxied)
	if perr == nil || errx.IsKind(perr, errx.KindAPI) {
		return body, perr
	}
	logx.Error().Err(perr).Msg("proxy request failed")
	return nil, errx.Network(fmt.Errorf("direct: %v; proxy: %w", err, perr))
}

// get performs one attempt. Transport failures are returned unwrapped so
// the caller can decide whether to fall back.
func (t *Transport) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logx.Warn().Int("status", resp.StatusCode).Msg("document api rejected request")
		return nil, errx.API(resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, snippet(body)))
	}
	return body, nil
}

func withAPIKey(target, apiKey string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set("apikey", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// redact drops the query so keys never reach the logs.
func redact(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	return u.String()
}

func snippet(b []byte) string {
	if len(b) > maxErrSnippet {
		return string(b[:maxErrSnippet]) + "..."
	}
	return string(b)
}
