package bundestag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	errx "github.com/plenarlens/server/internal/core/error"
	logx "github.com/plenarlens/server/pkg/logger"
)

// CredentialName is the user-facing name of the document API key.
const CredentialName = "Bundestag-API-Schlüssel"

// ErrInvalidQuery is returned when the legislative period is missing.
var ErrInvalidQuery = errors.New("bundestag: legislative period is required")

const transcriptPath = "/plenarprotokoll-text"

// Client builds DIP transcript queries on top of a Fetcher.
type Client struct {
	fetcher Fetcher
	baseURL string
}

// NewClient creates a client. A nil fetcher gets the default Transport.
func NewClient(cfg Config, fetcher Fetcher) *Client {
	cfg = cfg.withDefaults()
	if fetcher == nil {
		fetcher = NewTransport(cfg)
	}
	return &Client{
		fetcher: fetcher,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Search returns one page of transcripts. Pages are not concatenated here.
func (c *Client) Search(ctx context.Context, apiKey string, q Query) (*Page, error) {
	if apiKey == "" {
		return nil, errx.Credential(CredentialName)
	}
	target, err := c.searchURL(q)
	if err != nil {
		return nil, err
	}

	body, err := c.fetcher.Fetch(ctx, target, apiKey)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		logx.Error().Err(err).Msg("failed to decode transcript page")
		return nil, fmt.Errorf("decode page: %w", err)
	}
	if page.Documents == nil {
		page.Documents = []Document{}
	}

	logx.Debug().
		Int("period", q.Period).
		Bool("cursor", q.Cursor != "").
		Int("num_found", page.NumFound).
		Int("documents", len(page.Documents)).
		Msg("transcript page fetched")
	return &page, nil
}

// Get fetches a single transcript including its full text.
func (c *Client) Get(ctx context.Context, apiKey, id string) (*Document, error) {
	if apiKey == "" {
		return nil, errx.Credential(CredentialName)
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("bundestag: document id is required")
	}
	target := c.baseURL + transcriptPath + "/" + url.PathEscape(id) + "?format=json"

	body, err := c.fetcher.Fetch(ctx, target, apiKey)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &doc, nil
}

// Verify checks the key with a minimal search. The result count is ignored.
func (c *Client) Verify(ctx context.Context, apiKey string, period int) error {
	_, err := c.Search(ctx, apiKey, Query{Period: period, Limit: 1})
	return err
}

func (c *Client) searchURL(q Query) (string, error) {
	if q.Period <= 0 {
		return "", ErrInvalidQuery
	}
	limit := q.Limit
	if limit <= 0 {
		limit = PageSize
	}

	v := url.Values{}
	v.Set("f.wahlperiode", strconv.Itoa(q.Period))
	v.Set("format", "json")
	v.Set("limit", strconv.Itoa(limit))
	if q.Start != "" {
		v.Set("f.datum.start", q.Start)
	}
	if q.End != "" {
		v.Set("f.datum.end", q.End)
	}
	if t := strings.TrimSpace(q.Title); t != "" {
		v.Set("f.titel", t)
	}
	if q.Cursor != "" {
		v.Set("cursor", q.Cursor)
	}
	return c.baseURL + transcriptPath + "?" + v.Encode(), nil
}
