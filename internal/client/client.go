// Package client is a typed HTTP client for the creature server.
package client

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

	"creaturelab/internal/api"
	apperrors "creaturelab/internal/platform/errors"
)

// DefaultTimeout bounds every request made with the default HTTP client.
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// Client talks to the server's JSON API. Server errors are returned as
// domain errors carrying the server's code.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	var out api.HealthView
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("server reported status %q", out.Status)
	}
	return nil
}

// CreateCreature registers a new creature.
func (c *Client) CreateCreature(ctx context.Context, req api.CreateCreatureRequest) (api.CreatureView, error) {
	var out api.CreatureView
	err := c.do(ctx, http.MethodPost, "/creatures", req, &out)
	return out, err
}

// GetCreature fetches one creature.
func (c *Client) GetCreature(ctx context.Context, id string) (api.CreatureView, error) {
	var out api.CreatureView
	err := c.do(ctx, http.MethodGet, "/creatures/"+url.PathEscape(id), nil, &out)
	return out, err
}

// FindCreature fetches the first creature whose name matches ignoring case.
func (c *Client) FindCreature(ctx context.Context, name string) (api.CreatureView, error) {
	var out []api.CreatureView
	if err := c.do(ctx, http.MethodGet, "/creatures?name="+url.QueryEscape(name), nil, &out); err != nil {
		return api.CreatureView{}, err
	}
	if len(out) == 0 {
		return api.CreatureView{}, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("no creature named %q", name))
	}
	return out[0], nil
}

// DeleteCreature removes a creature.
func (c *Client) DeleteCreature(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/creatures/"+url.PathEscape(id), nil, nil)
}

// Act asks the server to apply an action.
func (c *Client) Act(ctx context.Context, req api.ActionRequest) (api.OutcomeView, error) {
	var out api.OutcomeView
	err := c.do(ctx, http.MethodPost, "/actions", req, &out)
	return out, err
}

// History fetches the recent action summaries.
func (c *Client) History(ctx context.Context) ([]string, error) {
	var out api.HistoryView
	if err := c.do(ctx, http.MethodGet, "/history", nil, &out); err != nil {
		return nil, err
	}
	return out.Actions, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s request: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create %s %s request: %w", method, path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send %s %s request: %w", method, path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		var errBody api.ErrorBody
		if len(respBody) > 0 {
			// A non-JSON body still yields a status-derived error.
			_ = json.Unmarshal(respBody, &errBody)
		}
		return errBody.Err(httpResp.StatusCode)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
