// Package settings provides the durable per-account key/value storage in which a linked
// Flickr account's credentials are kept between runs.
//
// Every backend stores plain strings under plain keys: a key that has never been set
// reads back as the empty string rather than an error. Namespace scopes keys to a
// feature and an account, so several accounts can share a single backend.
package settings
