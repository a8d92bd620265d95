package oauth

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/google/uuid"

	"github.com/golden-vcr/flickrauth"
	"github.com/golden-vcr/flickrauth/internal/settings"
)

// Signer adds OAuth 1.0a protocol parameters and an HMAC-SHA1 signature to the query
// parameters of a request
type Signer struct {
	consumerKey string
	hmac        *oauth1.HMACSigner
	store       settings.Store

	now   func() time.Time
	nonce func() string
}

// NewSigner initializes a Signer for our app's consumer key and secret, signing with
// whichever token is currently held in the given settings store
func NewSigner(consumerKey, consumerSecret string, store settings.Store) *Signer {
	return &Signer{
		consumerKey: consumerKey,
		hmac:        &oauth1.HMACSigner{ConsumerSecret: consumerSecret},
		store:       store,
		now:         time.Now,
		nonce: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
}

// Sign returns a copy of params augmented with oauth_consumer_key, oauth_nonce,
// oauth_timestamp, oauth_signature_method, oauth_version, oauth_token (if we currently
// hold a token), and finally oauth_signature
func (s *Signer) Sign(ctx context.Context, params url.Values, method, rawURL string) (url.Values, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL: %w", err)
	}

	token, err := s.store.GetString(ctx, flickrauth.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	tokenSecret, err := s.store.GetString(ctx, flickrauth.KeyTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to read token secret: %w", err)
	}

	signed := url.Values{}
	for k, values := range params {
		signed[k] = append([]string(nil), values...)
	}
	signed.Set("oauth_consumer_key", s.consumerKey)
	signed.Set("oauth_nonce", s.nonce())
	signed.Set("oauth_timestamp", strconv.FormatInt(s.now().Unix(), 10))
	signed.Set("oauth_signature_method", s.hmac.Name())
	signed.Set("oauth_version", "1.0")
	if token != "" {
		signed.Set("oauth_token", token)
	}

	// Any parameters already present in the URL's query string take part in the
	// signature too
	all := url.Values{}
	for k, values := range u.Query() {
		all[k] = append(all[k], values...)
	}
	for k, values := range signed {
		all[k] = append(all[k], values...)
	}

	signature, err := s.hmac.Sign(tokenSecret, signatureBase(method, u, all))
	if err != nil {
		return nil, fmt.Errorf("failed to compute signature: %w", err)
	}
	signed.Set("oauth_signature", signature)
	return signed, nil
}
