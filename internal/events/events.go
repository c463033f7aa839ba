package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/usersvc/apiserver/config"
)

// Type names a user lifecycle event.
type Type string

const (
	UserCreated  Type = "user.created"
	UserUpdated  Type = "user.updated"
	UserDeleted  Type = "user.deleted"
	UserLoggedIn Type = "user.logged_in"
)

const attrType = "type"

// Event is the JSON payload published for every user lifecycle change.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	UserID     int       `json:"user_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// New stamps a fresh ID and the current UTC time on an event.
func New(t Type, userID int, email string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		UserID:     userID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker operations the publisher needs.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Publisher encodes events and sends them to one channel of a backend.
type Publisher struct {
	backend Backend
	channel string
}

// NewPublisher constructs a Publisher for the provided backend and channel.
func NewPublisher(backend Backend, channel string) *Publisher {
	return &Publisher{backend: backend, channel: channel}
}

// Publish sends evt to the publisher's channel.
func (p *Publisher) Publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", evt.Type, err)
	}
	if _, err := p.backend.Publish(ctx, p.channel, data, map[string]string{attrType: string(evt.Type)}); err != nil {
		return fmt.Errorf("publish event %s: %w", evt.Type, err)
	}
	return nil
}

// Subscribe decodes events from the publisher's channel and passes them to fn.
// Messages that are not valid events are acknowledged and dropped.
func (p *Publisher) Subscribe(ctx context.Context, fn func(ctx context.Context, evt Event) error) error {
	return p.backend.Subscribe(ctx, p.channel, func(ctx context.Context, msg Message) error {
		var evt Event
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			return nil
		}
		return fn(ctx, evt)
	})
}

// Channel returns the channel events are published to.
func (p *Publisher) Channel() string {
	return p.channel
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	return p.backend.Close()
}

// Open builds a Publisher for the backend named in cfg ("none", "rabbitmq" or "pubsub").
func Open(ctx context.Context, cfg config.EventsConfig) (*Publisher, error) {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = "user-events"
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "none":
		return NewPublisher(Discard{}, channel), nil
	case "rabbitmq":
		backend, err := NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return NewPublisher(backend, channel), nil
	case "pubsub":
		backend, err := NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return NewPublisher(backend, channel), nil
	default:
		return nil, fmt.Errorf("unsupported events backend %q", cfg.Backend)
	}
}

// Discard is a Backend that drops every message.
type Discard struct{}

func (Discard) Publish(context.Context, string, []byte, map[string]string) (string, error) {
	return "", nil
}

func (Discard) Subscribe(ctx context.Context, _ string, _ Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

func (Discard) Close() error { return nil }
