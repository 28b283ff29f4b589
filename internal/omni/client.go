// Package omni is a client for the Omni model API.
//
// Only two endpoints are used: the shared model listing and the combined YAML
// export of a single model. Requests carry a bearer token and are never
// retried; a failure is reported to the caller as is.
package omni

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/omnicatalog/internal/bundle"
)

// Listing defaults.
const (
	DefaultModelKind     = "SHARED"
	DefaultSortField     = "name"
	DefaultSortDirection = "asc"
	DefaultPageSize      = 10
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// Config holds what New needs to build a client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to one Omni instance.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client. A missing API key or base URL is a configuration
// error.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrMissingBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Model is one entry of the model listing. Only id and name are guaranteed.
type Model struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Kind       string `json:"modelKind,omitempty"`
	Connection string `json:"connectionId,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// PageInfo carries the pagination cursor, when the API returns one.
type PageInfo struct {
	HasNextPage  bool   `json:"hasNextPage"`
	NextCursor   string `json:"nextCursor,omitempty"`
	PageSize     int    `json:"pageSize,omitempty"`
	TotalRecords int    `json:"totalRecords,omitempty"`
}

// ModelList is one page of the model listing.
type ModelList struct {
	Records  []Model   `json:"records"`
	PageInfo *PageInfo `json:"pageInfo,omitempty"`
}

// ListOptions are the listing query parameters. Zero values take the
// package defaults.
type ListOptions struct {
	ModelKind     string
	SortField     string
	SortDirection string
	PageSize      int
	Cursor        string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	q.Set("modelKind", orDefault(o.ModelKind, DefaultModelKind))
	q.Set("sortField", orDefault(o.SortField, DefaultSortField))
	q.Set("sortDirection", orDefault(o.SortDirection, DefaultSortDirection))
	size := o.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	q.Set("pageSize", strconv.Itoa(size))
	if o.Cursor != "" {
		q.Set("cursor", o.Cursor)
	}
	return q
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ListModels fetches one page of models.
func (c *Client) ListModels(ctx context.Context, opts ListOptions) (*ModelList, error) {
	body, err := c.get(ctx, "/api/unstable/models", opts.query())
	if err != nil {
		return nil, err
	}

	var list ModelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}
	return &list, nil
}

// GetModelYAML fetches the combined YAML export of a model.
func (c *Client) GetModelYAML(ctx context.Context, modelID string) (string, error) {
	if modelID == "" {
		return "", ErrMissingModelID
	}
	path := "/api/unstable/models/" + url.PathEscape(modelID) + "/yaml"
	body, err := c.get(ctx, path, url.Values{"mode": {"combined"}})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// LoadBundle fetches a model's combined YAML and parses it into a bundle.
func (c *Client) LoadBundle(ctx context.Context, modelID string) (*bundle.Bundle, error) {
	raw, err := c.GetModelYAML(ctx, modelID)
	if err != nil {
		return nil, err
	}
	b, err := bundle.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", modelID, err)
	}
	if skipped := b.Skipped(); len(skipped) > 0 {
		c.logger.Warn("skipped non-text files", "model", modelID, "keys", skipped)
	}
	return b, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrTransport, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("omni request",
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrTransport, path, err)
	}
	return body, nil
}

// FindModelByName returns the first record named name.
func FindModelByName(models []Model, name string) (Model, bool) {
	for _, m := range models {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

// ResolveModel turns a user-supplied reference into a model. A reference
// matching a name on the first listing page (opts.PageSize models) resolves
// to that model; anything else is taken to be an id.
func (c *Client) ResolveModel(ctx context.Context, ref string, opts ListOptions) (Model, error) {
	if ref == "" {
		return Model{}, ErrModelNotFound
	}
	list, err := c.ListModels(ctx, opts)
	if err != nil {
		return Model{}, err
	}
	if m, ok := FindModelByName(list.Records, ref); ok {
		return m, nil
	}
	for _, m := range list.Records {
		if m.ID == ref {
			return m, nil
		}
	}
	return Model{ID: ref, Name: ref}, nil
}
