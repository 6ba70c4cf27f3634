// Package remote provides a client for a running holdcalc server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/model"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "holdcalc/1.0"
)

var (
	// ErrInvalidURL indicates the server address is not an http(s) URL.
	ErrInvalidURL = errors.New("remote: server address must be an http or https URL")
	// ErrUnavailable indicates the server has no history store.
	ErrUnavailable = errors.New("remote: history not available on server")
)

// RejectedError reports a portfolio the server refused. It matches
// assets.ErrInvalidAssetValue.
type RejectedError struct {
	Violations []Violation
}

func (e *RejectedError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s = %s (%s)", v.Field, v.Value, v.Reason))
	}
	return fmt.Sprintf("remote: %s: %s", assets.ErrInvalidAssetValue, strings.Join(parts, "; "))
}

func (e *RejectedError) Unwrap() error { return assets.ErrInvalidAssetValue }

// Client talks to the holdcalc HTTP API.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a client for a server such as "http://127.0.0.1:8787".
// A bare host:port is taken as http.
func NewClient(addr string) (*Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, ErrInvalidURL
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return &Client{base: u, http: &http.Client{}}, nil
}

// Health checks that the server answers.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	return err
}

// Project asks the server to project p, saving it to the server's history
// when save is set.
func (c *Client) Project(ctx context.Context, p model.Portfolio, label string, save bool) (*Projection, error) {
	body, err := c.do(ctx, http.MethodPost, "/v1/projection", nil, projectionRequest{Portfolio: p, Label: label, Save: save})
	if err != nil {
		return nil, err
	}
	var out Projection
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("remote: parsing projection: %w", err)
	}
	return &out, nil
}

// History lists the server's saved projections, newest first.
func (c *Client) History(ctx context.Context, limit int) ([]model.Record, error) {
	q := url.Values{"limit": {strconv.Itoa(max(limit, 0))}}
	body, err := c.do(ctx, http.MethodGet, "/v1/history", q, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Record
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("remote: parsing history: %w", err)
	}
	return out, nil
}

// do performs a request and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	u := *c.base
	u.Path += path
	u.RawQuery = query.Encode()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("remote: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("remote: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("remote: reading response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var er errorResponse
		_ = json.Unmarshal(body, &er)
		return nil, &RejectedError{Violations: er.Violations}
	case resp.StatusCode == http.StatusServiceUnavailable, resp.StatusCode == http.StatusNotFound && strings.HasPrefix(path, "/v1/history"):
		return nil, ErrUnavailable
	}

	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		return nil, fmt.Errorf("remote: %s (status %d)", er.Error, resp.StatusCode)
	}
	return nil, fmt.Errorf("remote: unexpected status %d", resp.StatusCode)
}
