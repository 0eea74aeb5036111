// Package api implements the HTTP client for the file integrity
// monitoring service. It issues bearer-authenticated JSON requests and
// binary downloads, and surfaces non-success responses as *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Client talks to one monitoring service instance. It is safe for
// concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	log     *zap.Logger
}

// Artifact is the result of a binary download: the raw payload plus the
// Content-Disposition header the server sent with it.
type Artifact struct {
	Data        []byte
	Disposition string
}

// New creates a Client for the service at baseURL. httpClient may be
// nil, in which case http.DefaultClient is used; no client-side timeout
// is imposed beyond the transport's own.
func New(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path, token string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, token, body, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path, token string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, token, body, out)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path, token string) error {
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("request", zap.String("method", method), zap.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Download fetches a binary resource with the bearer token attached and
// returns the payload together with the Content-Disposition header. A
// non-success status is parsed for a structured error message the same
// way JSON endpoints are.
func (c *Client) Download(ctx context.Context, path, token string) (*Artifact, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("download", zap.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.responseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	return &Artifact{
		Data:        data,
		Disposition: resp.Header.Get("Content-Disposition"),
	}, nil
}

// responseError builds an *Error from a non-2xx response, extracting
// the {"error": "..."} body message when present.
func (c *Client) responseError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var body struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &body) == nil {
			apiErr.Message = body.Error
		}
	}

	c.log.Debug("error response",
		zap.Int("status", apiErr.Status),
		zap.String("message", apiErr.Message),
	)
	return apiErr
}
