package flickrauth

import (
	"fmt"
	"net/url"

	"github.com/dghubble/oauth1"
)

// Endpoint declares the URLs of the Flickr services we talk to: the three OAuth 1.0a
// endpoints used to link an account, plus the REST endpoint used to make signed API
// calls once we hold an access token
type Endpoint struct {
	oauth1.Endpoint
	RESTURL string
}

// DefaultEndpoint is the production Flickr API
var DefaultEndpoint = Endpoint{
	Endpoint: oauth1.Endpoint{
		RequestTokenURL: "https://www.flickr.com/services/oauth/request_token",
		AuthorizeURL:    "https://www.flickr.com/services/oauth/authorize",
		AccessTokenURL:  "https://www.flickr.com/services/oauth/access_token",
	},
	RESTURL: "https://api.flickr.com/services/rest",
}

// OutOfBand is the oauth_callback value that asks Flickr to display the verifier to
// the user rather than redirecting to a callback URL
const OutOfBand = "oob"

// Permission is the scope of access we request when the user authorizes our app
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionWrite  Permission = "write"
	PermissionDelete Permission = "delete"
)

// ParsePermission validates a permission name as read from config
func ParsePermission(s string) (Permission, error) {
	switch p := Permission(s); p {
	case PermissionRead, PermissionWrite, PermissionDelete:
		return p, nil
	}
	return "", fmt.Errorf("unsupported Flickr permission '%s'", s)
}

// AuthorizationURL returns the page the user must visit in order to grant our app
// access to their account, for the given request token
func (e *Endpoint) AuthorizationURL(requestToken string, perms Permission) (string, error) {
	u, err := url.Parse(e.AuthorizeURL)
	if err != nil {
		return "", fmt.Errorf("invalid authorize URL: %w", err)
	}
	q := u.Query()
	q.Set("perms", string(perms))
	q.Set("oauth_token", requestToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
