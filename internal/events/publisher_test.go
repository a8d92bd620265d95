package events

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"

	"github.com/golden-vcr/flickrauth"
	"github.com/golden-vcr/flickrauth/internal/authflow"
)

func Test_Publisher_Report(t *testing.T) {
	tests := []struct {
		name     string
		result   authflow.Result
		wantBody string
	}{
		{
			"successful handshake publishes linked event",
			authflow.Result{
				Account: "alice",
				Success: true,
				Reason:  authflow.ReasonAuthorized,
				Credentials: &flickrauth.Credentials{
					Token:       "T2",
					TokenSecret: "S2",
					FullName:    "Jane Doe",
					NSID:        "123",
					Username:    "jane",
				},
			},
			`{"type":"linked","account":"alice","reason":"authorized","username":"jane","fullName":"Jane Doe","nsid":"123","timestamp":"2024-01-02T03:04:05Z"}`,
		},
		{
			"validated credentials publish validated event",
			authflow.Result{
				Account:     "alice",
				Success:     true,
				Reason:      authflow.ReasonValidated,
				Credentials: &flickrauth.Credentials{Token: "T2", TokenSecret: "S2", Username: "jane"},
			},
			`{"type":"validated","account":"alice","reason":"validated","username":"jane","timestamp":"2024-01-02T03:04:05Z"}`,
		},
		{
			"failure publishes failed event",
			authflow.Result{
				Account: "alice",
				Reason:  authflow.ReasonAccessTokenFailed,
			},
			`{"type":"failed","account":"alice","reason":"access_token_failed","timestamp":"2024-01-02T03:04:05Z"}`,
		},
		{
			"duplicate publishes nothing",
			authflow.Result{
				Account: "alice",
				Reason:  authflow.ReasonDuplicate,
			},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &mockChannel{}
			p := newTestPublisher(t, ch)
			p.Report(context.Background(), tt.result)
			if tt.wantBody == "" {
				assert.Empty(t, ch.published)
				return
			}
			assert.Len(t, ch.published, 1)
			assert.Equal(t, "flickr-auth", ch.published[0].exchange)
			assert.Equal(t, "application/json", ch.published[0].msg.ContentType)
			assert.JSONEq(t, tt.wantBody, string(ch.published[0].msg.Body))
		})
	}
}

func Test_Publisher_Report_errorIsSwallowed(t *testing.T) {
	ch := &mockChannel{publishErr: errors.New("channel/connection is not open")}
	p := newTestPublisher(t, ch)
	assert.NotPanics(t, func() {
		p.Report(context.Background(), authflow.Result{Account: "alice", Reason: authflow.ReasonDeclined})
	})
}

func Test_newPublisher_declaresFanoutExchange(t *testing.T) {
	ch := &mockChannel{}
	_, err := newPublisher(ch, "flickr-auth", nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"flickr-auth:fanout"}, ch.declared)

	_, err = newPublisher(&mockChannel{declareErr: errors.New("access refused")}, "flickr-auth", nil)
	assert.ErrorContains(t, err, "access refused")
}

func newTestPublisher(t *testing.T, ch *mockChannel) *Publisher {
	p, err := newPublisher(ch, "flickr-auth", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	p.now = func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	return p
}

type publishedMessage struct {
	exchange string
	msg      amqp.Publishing
}

type mockChannel struct {
	declareErr error
	publishErr error
	declared   []string
	published  []publishedMessage
}

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	if m.declareErr != nil {
		return m.declareErr
	}
	m.declared = append(m.declared, name+":"+kind)
	return nil
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, publishedMessage{exchange, msg})
	return nil
}

func (m *mockChannel) Close() error {
	return nil
}
