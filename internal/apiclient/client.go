// Package apiclient talks to the upstream NYC360 REST API. Every response
// is wrapped in the {isSuccess, data, error} envelope.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
)

// DefaultTimeout bounds one upstream request
const DefaultTimeout = 30 * time.Second

// Client is an upstream API client. A Client is bound to at most one bearer
// token; use WithToken to derive a per-viewer client.
type Client struct {
	baseURL     string
	token       string
	tokenSource func() string
	httpClient  *http.Client
}

// NewClient creates a client for the API rooted at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithToken returns a copy of c that authenticates as the token's owner
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	cp.tokenSource = nil
	return &cp
}

// WithTokenSource returns a copy of c that asks src for the bearer token on
// every request. An empty token sends the request anonymously.
func (c *Client) WithTokenSource(src func() string) *Client {
	cp := *c
	cp.token = ""
	cp.tokenSource = src
	return &cp
}

func (c *Client) bearer() string {
	if c.tokenSource != nil {
		return c.tokenSource()
	}
	return c.token
}

// Meta is the paging part of an envelope
type Meta struct {
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("marshal request: %w", err)
	}
	return request{method: method, path: path, body: bytes.NewReader(data), contentType: "application/json"}, nil
}

// do sends r and decodes the envelope data into out. Failures before a
// valid envelope are wrapped in common.ErrTransport; isSuccess=false comes
// back as *common.APIError.
func (c *Client) do(ctx context.Context, r request, out any) (Meta, error) {
	u := c.baseURL + "/" + strings.TrimLeft(r.path, "/")
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return Meta{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	if token := c.bearer(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: %s %s: %v", common.ErrTransport, r.method, r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Meta{}, fmt.Errorf("%w: read response: %v", common.ErrTransport, err)
	}

	var env domain.Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil || (!env.IsSuccess && env.Error == nil && resp.StatusCode >= 500) {
		return Meta{}, fmt.Errorf("%w: %s %s: status %d without envelope", common.ErrTransport, r.method, r.path, resp.StatusCode)
	}

	if !env.IsSuccess {
		apiErr := &common.APIError{Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return Meta{}, apiErr
	}

	meta := Meta{Page: env.Page, PageSize: env.PageSize, TotalCount: env.TotalCount, TotalPages: env.TotalPages}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return meta, fmt.Errorf("%w: decode %s data: %v", common.ErrTransport, r.path, err)
		}
	}
	return meta, nil
}

func pageQuery(pageKey, sizeKey string, page, pageSize int) url.Values {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	q := url.Values{}
	q.Set(pageKey, fmt.Sprint(page))
	q.Set(sizeKey, fmt.Sprint(pageSize))
	return q
}

func toPage(items []domain.RawPost, meta Meta) domain.Page[domain.RawPost] {
	if items == nil {
		items = []domain.RawPost{}
	}
	return domain.Page[domain.RawPost]{
		Items:      items,
		Page:       meta.Page,
		PageSize:   meta.PageSize,
		TotalCount: meta.TotalCount,
		TotalPages: meta.TotalPages,
	}
}
