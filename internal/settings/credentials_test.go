package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/golden-vcr/flickrauth"
	"github.com/stretchr/testify/assert"
)

func Test_SaveCredentials_LoadCredentials(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	creds := &flickrauth.Credentials{
		Token:       "T2",
		TokenSecret: "S2",
		FullName:    "Jane Doe",
		NSID:        "123",
		Username:    "jane",
	}
	assert.NoError(t, SaveCredentials(ctx, s, creds))

	got, err := LoadCredentials(ctx, s)
	assert.NoError(t, err)
	assert.Equal(t, creds, got)
	assert.Equal(t, map[string]string{
		"FlickrToken":       "T2",
		"FlickrTokenSecret": "S2",
		"FlickrFullName":    "Jane Doe",
		"FlickrNSID":        "123",
		"FlickrUsername":    "jane",
	}, s.Snapshot())
}

func Test_ClearToken_keepsProfile(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	assert.NoError(t, SaveCredentials(ctx, s, &flickrauth.Credentials{
		Token:       "T2",
		TokenSecret: "S2",
		Username:    "jane",
	}))
	assert.NoError(t, ClearToken(ctx, s))

	got, err := LoadCredentials(ctx, s)
	assert.NoError(t, err)
	assert.False(t, got.HasToken())
	assert.Equal(t, "jane", got.Username)

	assert.NoError(t, ClearCredentials(ctx, s))
	got, err = LoadCredentials(ctx, s)
	assert.NoError(t, err)
	assert.Equal(t, &flickrauth.Credentials{}, got)
}

func Test_LoadCredentials_propagatesErrors(t *testing.T) {
	_, err := LoadCredentials(context.Background(), &failingStore{err: errors.New("keyring locked")})
	assert.ErrorContains(t, err, "keyring locked")
}

type failingStore struct {
	err error
}

func (s *failingStore) GetString(ctx context.Context, key string) (string, error) {
	return "", s.err
}

func (s *failingStore) SetString(ctx context.Context, key, value string) error {
	return s.err
}
