// Package fetch downloads external resources (image fills) with a pooled
// HTTP client and a hard response size cap.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const defaultMaxBytes = 16 << 20 // 16 MiB

// Client fetches remote resources.
type Client struct {
	http     *http.Client
	maxBytes int64
}

// New builds a client with connection pooling. A zero timeout means 30s.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{
		http:     &http.Client{Timeout: timeout, Transport: transport},
		maxBytes: defaultMaxBytes,
	}
}

// Get downloads a URL and returns the body bytes and content type.
func (c *Client) Get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read body of %s: %w", url, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, "", fmt.Errorf("fetch %s: response exceeds %d bytes", url, c.maxBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
