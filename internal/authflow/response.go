package authflow

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/golden-vcr/flickrauth"
	"github.com/golden-vcr/flickrauth/internal/transport"
)

// decodePayload parses a URL-encoded response body into a flat set of key/value pairs,
// keeping the first value of any repeated key. A body that can't be parsed yields an
// empty payload.
func decodePayload(body []byte) flickrauth.Payload {
	payload := flickrauth.Payload{}
	values, err := url.ParseQuery(strings.TrimSpace(string(body)))
	if err != nil {
		return payload
	}
	for k, v := range values {
		if len(v) > 0 {
			payload[k] = v[0]
		}
	}
	return payload
}

// checkResponse maps a response to one of our error types: ErrTransport for a non-2xx
// status, or ErrApplicationStatus if Flickr reported a problem in the body of an
// otherwise successful response
func checkResponse(res *transport.Response, payload flickrauth.Payload) error {
	problem := payload["oauth_problem"]
	if !res.OK() {
		if problem != "" {
			return fmt.Errorf("%w: got response %d (%s)", ErrTransport, res.StatusCode, problem)
		}
		return fmt.Errorf("%w: got response %d", ErrTransport, res.StatusCode)
	}
	if problem != "" {
		return fmt.Errorf("%w: %s", ErrApplicationStatus, problem)
	}
	if payload["stat"] == "fail" {
		return fmt.Errorf("%w: %s", ErrApplicationStatus, payload["message"])
	}
	return nil
}

// withQuery appends encoded query params to an endpoint URL
func withQuery(endpoint string, params url.Values) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + params.Encode()
}
