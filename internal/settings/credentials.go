package settings

import (
	"context"
	"fmt"

	"github.com/golden-vcr/flickrauth"
)

// LoadCredentials reads all credential fields for the store's account
func LoadCredentials(ctx context.Context, s Store) (*flickrauth.Credentials, error) {
	creds := &flickrauth.Credentials{}
	fields := []struct {
		key string
		dst *string
	}{
		{flickrauth.KeyToken, &creds.Token},
		{flickrauth.KeyTokenSecret, &creds.TokenSecret},
		{flickrauth.KeyFullName, &creds.FullName},
		{flickrauth.KeyNSID, &creds.NSID},
		{flickrauth.KeyUsername, &creds.Username},
	}
	for _, f := range fields {
		value, err := s.GetString(ctx, f.key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.key, err)
		}
		*f.dst = value
	}
	return creds, nil
}

// SaveRequestToken stores a temporary request token in the token fields, so that the
// access token request can be signed with it
func SaveRequestToken(ctx context.Context, s Store, token, secret string) error {
	return setAll(ctx, s, [][2]string{
		{flickrauth.KeyToken, token},
		{flickrauth.KeyTokenSecret, secret},
	})
}

// SaveCredentials stores an access token along with the associated profile details
func SaveCredentials(ctx context.Context, s Store, creds *flickrauth.Credentials) error {
	return setAll(ctx, s, [][2]string{
		{flickrauth.KeyToken, creds.Token},
		{flickrauth.KeyTokenSecret, creds.TokenSecret},
		{flickrauth.KeyFullName, creds.FullName},
		{flickrauth.KeyNSID, creds.NSID},
		{flickrauth.KeyUsername, creds.Username},
	})
}

// ClearToken erases the token and secret, leaving profile details in place
func ClearToken(ctx context.Context, s Store) error {
	return SaveRequestToken(ctx, s, "", "")
}

// ClearCredentials erases everything we know about the linked account
func ClearCredentials(ctx context.Context, s Store) error {
	return SaveCredentials(ctx, s, &flickrauth.Credentials{})
}

func setAll(ctx context.Context, s Store, pairs [][2]string) error {
	for _, kv := range pairs {
		if err := s.SetString(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to write %s: %w", kv[0], err)
		}
	}
	return nil
}
