package sound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPSource fetches clips from the quiz server.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

var _ Source = (*HTTPSource)(nil)

// NewHTTPSource resolves locators against baseURL.
func NewHTTPSource(baseURL string, client *http.Client) (*HTTPSource, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server url: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{base: base, client: client}, nil
}

func (s *HTTPSource) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	ref, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to parse clip locator %q: %w", uri, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base.ResolveReference(ref).String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clip: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", uri, ErrClipNotFound)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch clip %s: status %d", uri, resp.StatusCode)
	}
}

// FallbackSource tries each source in order and returns the first clip
// found.
type FallbackSource []Source

func (f FallbackSource) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	var errs []error
	for _, s := range f {
		rc, err := s.Open(ctx, uri)
		if err == nil {
			return rc, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%s: %w", uri, ErrClipNotFound)
	}
	return nil, errors.Join(errs...)
}
