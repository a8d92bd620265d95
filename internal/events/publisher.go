package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/slog"

	"github.com/golden-vcr/flickrauth"
	"github.com/golden-vcr/flickrauth/internal/authflow"
)

// Channel is the subset of *amqp.Channel that we use to publish events
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher announces the outcome of each authorization attempt on a fanout exchange,
// so that other services can react when a Flickr account is linked or unlinked
type Publisher struct {
	ch       Channel
	exchange string
	logger   *slog.Logger
	now      func() time.Time
}

// NewPublisher opens a channel on conn and declares the exchange that events will be
// published to
func NewPublisher(conn *amqp.Connection, exchange string, logger *slog.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}
	p, err := newPublisher(ch, exchange, logger)
	if err != nil {
		ch.Close()
		return nil, err
	}
	return p, nil
}

func newPublisher(ch Channel, exchange string, logger *slog.Logger) (*Publisher, error) {
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchange, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Publish sends a single event to the exchange as JSON
func (p *Publisher) Publish(ctx context.Context, ev *flickrauth.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   ev.Timestamp,
		Body:        data,
	})
}

// Report publishes an event describing a finished attempt; it satisfies
// authflow.Reporter. Rejected duplicates are not announced, and failure to publish is
// logged rather than propagated.
func (p *Publisher) Report(ctx context.Context, result authflow.Result) {
	ev := p.eventFromResult(result)
	if ev == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		p.logger.Error("Failed to publish Flickr authorization event", "error", err, "type", ev.Type, "account", ev.Account)
	}
}

// Close releases the underlying AMQP channel
func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) eventFromResult(result authflow.Result) *flickrauth.Event {
	ev := &flickrauth.Event{
		Account:   result.Account,
		Reason:    string(result.Reason),
		Timestamp: p.now().UTC(),
	}
	switch result.Reason {
	case authflow.ReasonDuplicate:
		return nil
	case authflow.ReasonAuthorized:
		ev.Type = flickrauth.EventTypeLinked
	case authflow.ReasonValidated:
		ev.Type = flickrauth.EventTypeValidated
	default:
		ev.Type = flickrauth.EventTypeFailed
	}
	if result.Success && result.Credentials != nil {
		ev.Username = result.Credentials.Username
		ev.FullName = result.Credentials.FullName
		ev.NSID = result.Credentials.NSID
	}
	return ev
}
