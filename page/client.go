// Package page talks to the quiz server the way the browser page does:
// fragment requests whose responses are swapped into page regions.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/d1nch8g/quizvoice/update"
)

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected response status")

// Config holds the Client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues fragment requests against the quiz server. The cookie jar
// keeps the selected player's session.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient creates a Client for config.BaseURL.
func NewClient(config Config) (*Client, error) {
	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("failed to parse server url: %q is not absolute", config.BaseURL)
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: config.Timeout},
	}, nil
}

// SelectPlayer picks the player whose quiz progress is used.
func (c *Client) SelectPlayer(ctx context.Context, id int) error {
	resp, err := c.do(ctx, http.MethodPost, "/players/"+strconv.Itoa(id)+"/select", "", nil)
	if err != nil {
		return fmt.Errorf("failed to select player %d: %w", id, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Get fetches path and returns the swaps it produces for target.
func (c *Client) Get(ctx context.Context, path, target string) ([]update.Event, error) {
	return c.swap(ctx, http.MethodGet, path, target, nil)
}

// Post submits form to path and returns the swaps it produces for target.
func (c *Client) Post(ctx context.Context, path, target string, form url.Values) ([]update.Event, error) {
	return c.swap(ctx, http.MethodPost, path, target, form)
}

func (c *Client) swap(ctx context.Context, method, path, target string, form url.Values) ([]update.Event, error) {
	resp, err := c.do(ctx, method, path, target, form)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	events, err := ParseSwaps(resp.Body, target)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s %s: %w", method, path, err)
	}
	return events, nil
}

func (c *Client) do(ctx context.Context, method, path, target string, form url.Values) (*http.Response, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse path %q: %w", path, err)
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if target != "" {
		req.Header.Set("HX-Request", "true")
		req.Header.Set("HX-Target", target)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s: %w %d: %s", method, path, ErrStatus, resp.StatusCode, string(bytes.TrimSpace(msg)))
	}
	return resp, nil
}
