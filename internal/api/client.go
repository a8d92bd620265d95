// Package api makes signed calls to the Flickr REST API, requesting JSON responses.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/golden-vcr/flickrauth/internal/transport"
)

// ErrHTTPStatus is returned when the REST endpoint responds with a non-2xx status
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Signer adds OAuth parameters and a signature to a request's query parameters
type Signer interface {
	Sign(ctx context.Context, params url.Values, method, rawURL string) (url.Values, error)
}

// Transport issues raw GET requests
type Transport interface {
	GetRaw(ctx context.Context, url string) (*transport.Response, error)
}

// Reply is the envelope common to all Flickr REST responses: Stat is "ok" on success
// or "fail", in which case Code and Message describe the problem
type Reply struct {
	Stat    string          `json:"stat"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Raw     json.RawMessage `json:"-"`
}

// OK reports whether Flickr considered the call successful
func (r *Reply) OK() bool {
	return r.Stat == "ok"
}

type Client struct {
	restURL   string
	signer    Signer
	transport Transport
}

func NewClient(restURL string, signer Signer, transport Transport) *Client {
	return &Client{
		restURL:   restURL,
		signer:    signer,
		transport: transport,
	}
}

// Call invokes a REST method with the given arguments. An error is returned if the
// request could not be made or came back with a non-2xx status; application-level
// failures are conveyed by the returned Reply.
func (c *Client) Call(ctx context.Context, method string, args url.Values) (*Reply, error) {
	params := url.Values{}
	for k, values := range args {
		params[k] = append([]string(nil), values...)
	}
	params.Set("method", method)
	params.Set("format", "json")
	params.Set("nojsoncallback", "1")

	signed, err := c.signer.Sign(ctx, params, "GET", c.restURL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign %s request: %w", method, err)
	}
	res, err := c.transport.GetRaw(ctx, c.restURL+"?"+signed.Encode())
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	if !res.OK() {
		return nil, fmt.Errorf("got response %d from %s request: %w", res.StatusCode, method, ErrHTTPStatus)
	}

	reply := &Reply{Raw: json.RawMessage(res.Body)}
	if err := json.Unmarshal(res.Body, reply); err != nil {
		// An unparseable body carries no "ok" status, so callers see a failed call
		// rather than an error
		reply.Stat = ""
		reply.Message = fmt.Sprintf("malformed response: %v", err)
	}
	return reply, nil
}

// TestLogin calls flickr.test.login, which succeeds only if the request was signed
// with a valid access token
func (c *Client) TestLogin(ctx context.Context) (*Reply, error) {
	return c.Call(ctx, "flickr.test.login", nil)
}
