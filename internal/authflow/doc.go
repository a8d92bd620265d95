// Package authflow links a Flickr account to our app by way of the three-legged OAuth
// 1.0a handshake described here:
//
// - https://www.flickr.com/services/api/auth.oauth.html
//
// An Attempt first checks whether the account's settings already hold an access token.
// If so, it calls flickr.test.login to confirm that the token still works, and if it
// does, we're done: the stored credentials are reused as-is.
//
// Otherwise (or if the stored token has been revoked), we explain the process to the
// user and, with their consent, run the handshake:
//
//  1. We request a temporary request token, using the out-of-band callback ("oob") since
//     we have no web server for Flickr to redirect back to.
//  2. We open the Flickr authorization page for that request token in the user's
//     browser. Once they grant access, Flickr shows them a verification code, which
//     they type back into our prompt.
//  3. We exchange the request token and verifier for an access token, which we store in
//     the account's settings along with the user's Flickr profile details.
//
// Only one attempt may run at a time: a Guard (by default a single process-wide flag)
// is claimed when an attempt is constructed, and released when it finishes. An attempt
// constructed while another one holds the guard is rejected on the spot: it does
// nothing, and its completion callback is never called.
package authflow
