package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"shareit-backend/internal/logger"
)

// Response is a backend reply relayed verbatim to the caller.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Client forwards validated requests to the backend server.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Forward replays method, path, query, headers and body against the backend.
func (c *Client) Forward(ctx context.Context, method, path, rawQuery string, header http.Header, body []byte) (*Response, error) {
	url := c.baseURL + path
	if rawQuery != "" {
		url += "?" + rawQuery
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build backend request: %w", err)
	}
	for _, name := range forwardedHeaders {
		if v := header.Get(name); v != "" {
			req.Header.Set(name, v)
		}
	}

	logger.ExternalServiceCall("backend", method+" "+path)
	resp, err := c.http.Do(req)
	if err != nil {
		logger.ExternalServiceResult("backend", method+" "+path, err)
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	logger.ExternalServiceResult("backend", method+" "+path, err, "status", resp.StatusCode)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}
	return &Response{Status: resp.StatusCode, ContentType: resp.Header.Get("Content-Type"), Body: data}, nil
}

var forwardedHeaders = []string{"Content-Type", "X-Sharer-User-Id", "X-Request-ID"}
