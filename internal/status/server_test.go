package status

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/golden-vcr/flickrauth"
	"github.com/golden-vcr/flickrauth/internal/api"
	"github.com/golden-vcr/flickrauth/internal/settings"
)

func Test_Server_handleGetStatus(t *testing.T) {
	tests := []struct {
		name       string
		creds      *flickrauth.Credentials
		p          *mockProber
		wantStatus int
		wantBody   string
		wantProbes int
	}{
		{
			"nothing stored",
			nil,
			&mockProber{},
			200,
			`{"ok":false,"account":"alice","linked":false}`,
			0,
		},
		{
			"token without secret is not linked",
			&flickrauth.Credentials{Token: "T2"},
			&mockProber{},
			200,
			`{"ok":false,"account":"alice","linked":false}`,
			0,
		},
		{
			"stored token is accepted",
			&flickrauth.Credentials{Token: "T2", TokenSecret: "S2", FullName: "Jane Doe", NSID: "123", Username: "jane"},
			&mockProber{reply: &api.Reply{Stat: "ok"}},
			200,
			`{"ok":true,"account":"alice","linked":true,"profile":{"fullName":"Jane Doe","nsid":"123","username":"jane"},"probe":{"stat":"ok"}}`,
			1,
		},
		{
			"stored token is rejected",
			&flickrauth.Credentials{Token: "T2", TokenSecret: "S2", Username: "jane"},
			&mockProber{reply: &api.Reply{Stat: "fail", Code: 98, Message: "Invalid auth token"}},
			200,
			`{"ok":false,"account":"alice","linked":true,"profile":{"fullName":"","nsid":"","username":"jane"},"probe":{"stat":"fail","code":98,"message":"Invalid auth token"}}`,
			1,
		},
		{
			"probe could not be made",
			&flickrauth.Credentials{Token: "T2", TokenSecret: "S2", Username: "jane"},
			&mockProber{err: errors.New("connection refused")},
			200,
			`{"ok":false,"account":"alice","linked":true,"profile":{"fullName":"","nsid":"","username":"jane"},"probe":{"stat":"error","error":"connection refused"}}`,
			1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := settings.NewMemoryStore()
			if tt.creds != nil {
				err := settings.SaveCredentials(context.Background(), store, tt.creds)
				assert.NoError(t, err)
			}
			s := &Server{
				account: "alice",
				store:   store,
				prober:  tt.p,
			}
			req := httptest.NewRequest(http.MethodGet, "/status", nil)
			res := httptest.NewRecorder()
			s.handleGetStatus(res, req)

			b, err := io.ReadAll(res.Body)
			assert.NoError(t, err)
			body := strings.TrimSuffix(string(b), "\n")
			assert.Equal(t, tt.wantStatus, res.Code)
			assert.Equal(t, tt.wantBody, body)
			assert.Equal(t, tt.wantProbes, tt.p.calls)
		})
	}
}

func Test_Server_handleGetStatus_storeFailure(t *testing.T) {
	s := &Server{
		account: "alice",
		store:   &failingStore{},
		prober:  &mockProber{},
	}
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	res := httptest.NewRecorder()
	s.handleGetStatus(res, req)
	assert.Equal(t, http.StatusInternalServerError, res.Code)
}

func Test_Server_handleDeleteCredentials(t *testing.T) {
	store := settings.NewMemoryStore()
	err := settings.SaveCredentials(context.Background(), store, &flickrauth.Credentials{
		Token:       "T2",
		TokenSecret: "S2",
		FullName:    "Jane Doe",
		NSID:        "123",
		Username:    "jane",
	})
	assert.NoError(t, err)

	s := &Server{
		account: "alice",
		store:   store,
		prober:  &mockProber{},
	}
	req := httptest.NewRequest(http.MethodDelete, "/credentials", nil)
	res := httptest.NewRecorder()
	s.handleDeleteCredentials(res, req)

	assert.Equal(t, http.StatusNoContent, res.Code)
	creds, err := settings.LoadCredentials(context.Background(), store)
	assert.NoError(t, err)
	assert.Equal(t, &flickrauth.Credentials{}, creds)
}

func Test_Server_handleDeleteCredentials_storeFailure(t *testing.T) {
	s := &Server{
		account: "alice",
		store:   &failingStore{},
		prober:  &mockProber{},
	}
	req := httptest.NewRequest(http.MethodDelete, "/credentials", nil)
	res := httptest.NewRecorder()
	s.handleDeleteCredentials(res, req)
	assert.Equal(t, http.StatusInternalServerError, res.Code)
}

type mockProber struct {
	reply *api.Reply
	err   error
	calls int
}

func (m *mockProber) TestLogin(ctx context.Context) (*api.Reply, error) {
	m.calls++
	return m.reply, m.err
}

type failingStore struct{}

func (s *failingStore) GetString(ctx context.Context, key string) (string, error) {
	return "", errors.New("redis: connection pool timeout")
}

func (s *failingStore) SetString(ctx context.Context, key, value string) error {
	return errors.New("redis: connection pool timeout")
}
