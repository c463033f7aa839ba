package services

import (
	"context"
	"log/slog"

	"github.com/usersvc/apiserver/internal/events"
	"github.com/usersvc/apiserver/types"
)

// EventPublisher sends user lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, evt events.Event) error
}

// NotifyingRepository publishes an event after every successful change made
// through the wrapped repository. A failed publish is logged and does not
// fail the call.
type NotifyingRepository struct {
	UserRepository

	publisher EventPublisher
	logger    *slog.Logger
}

func NewNotifyingRepository(next UserRepository, publisher EventPublisher, logger *slog.Logger) *NotifyingRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotifyingRepository{
		UserRepository: next,
		publisher:      publisher,
		logger:         logger,
	}
}

func (n *NotifyingRepository) Create(ctx context.Context, input types.NewUser) (types.User, error) {
	user, err := n.UserRepository.Create(ctx, input)
	if err != nil {
		return user, err
	}
	n.publish(ctx, events.New(events.UserCreated, user.ID, deref(user.Email)))
	return user, nil
}

func (n *NotifyingRepository) Update(ctx context.Context, id int, patch types.NewUser) (types.User, error) {
	user, err := n.UserRepository.Update(ctx, id, patch)
	if err != nil {
		return user, err
	}
	if !patch.IsEmpty() {
		n.publish(ctx, events.New(events.UserUpdated, user.ID, deref(user.Email)))
	}
	return user, nil
}

func (n *NotifyingRepository) Delete(ctx context.Context, id int) (int64, error) {
	deleted, err := n.UserRepository.Delete(ctx, id)
	if err != nil {
		return deleted, err
	}
	if deleted > 0 {
		n.publish(ctx, events.New(events.UserDeleted, id, ""))
	}
	return deleted, nil
}

func (n *NotifyingRepository) Login(ctx context.Context, email, password string) (string, error) {
	token, err := n.UserRepository.Login(ctx, email, password)
	if err != nil {
		return token, err
	}
	evt := events.New(events.UserLoggedIn, 0, email)
	if user, err := n.UserRepository.GetByEmail(ctx, email); err == nil {
		evt.UserID = user.ID
	} else {
		n.logger.Warn("resolve user for login event", "email", email, "error", err)
	}
	n.publish(ctx, evt)
	return token, nil
}

func (n *NotifyingRepository) publish(ctx context.Context, evt events.Event) {
	if err := n.publisher.Publish(ctx, evt); err != nil {
		n.logger.Warn("publish user event", "type", evt.Type, "user_id", evt.UserID, "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
