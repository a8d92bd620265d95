package flickrauth

// Settings keys under which a linked account's credentials are persisted. Stores
// namespace these per feature and per account.
const (
	KeyToken       = "FlickrToken"
	KeyTokenSecret = "FlickrTokenSecret"
	KeyFullName    = "FlickrFullName"
	KeyNSID        = "FlickrNSID"
	KeyUsername    = "FlickrUsername"
)

// Payload is a flat set of key/value pairs decoded from a Flickr response body
type Payload map[string]string

// Credentials represents the OAuth access token for a linked Flickr account, along
// with the profile details Flickr returns alongside it
type Credentials struct {
	Token       string `json:"-"`
	TokenSecret string `json:"-"`
	FullName    string `json:"fullName"`
	NSID        string `json:"nsid"`
	Username    string `json:"username"`
}

// HasToken reports whether both halves of the token are present: a token without its
// secret (or vice versa) can't be used to sign requests
func (c *Credentials) HasToken() bool {
	return c.Token != "" && c.TokenSecret != ""
}

// CredentialsFromPayload extracts credentials from the body of an access token
// response
func CredentialsFromPayload(p Payload) Credentials {
	return Credentials{
		Token:       p["oauth_token"],
		TokenSecret: p["oauth_token_secret"],
		FullName:    p["fullname"],
		NSID:        p["user_nsid"],
		Username:    p["username"],
	}
}
