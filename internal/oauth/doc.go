// Package oauth signs Flickr requests according to OAuth 1.0a (RFC 5849), using the
// HMAC-SHA1 signature method.
//
// Flickr accepts OAuth parameters in the query string, so rather than setting an
// Authorization header, Sign returns the complete set of query parameters (the
// caller's own parameters plus the oauth_* protocol parameters and the signature).
// The token that a request is signed with is read from the account's settings at
// signing time: during the handshake that's the temporary request token, and once the
// account is linked it's the access token.
package oauth
