package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Response is the raw result of a GET request
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the request succeeded at the HTTP level
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client issues plain GET requests and hands back the undecoded body: the OAuth
// endpoints reply with URL-encoded forms and the REST API with JSON, so decoding is
// left to the caller
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetRaw issues a GET request to the given URL. An error is returned only if no
// response was received; non-2xx responses are returned as-is.
func (c *Client) GetRaw(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error initializing HTTP request: %w", err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{
		StatusCode: res.StatusCode,
		Body:       body,
	}, nil
}
