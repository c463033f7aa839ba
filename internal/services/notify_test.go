package services_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/usersvc/apiserver/internal/events"
	"github.com/usersvc/apiserver/internal/services"
	"github.com/usersvc/apiserver/types"
)

func TestNotifyingRepositoryPublishesOnSuccess(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	pub := new(MockPublisher)
	n := services.NewNotifyingRepository(repo, pub, nil)

	input := types.NewUser{Email: types.StringPtr("a@x.com"), PasswordHash: types.StringPtr("pw")}
	user := types.User{ID: 3, Email: input.Email}
	patch := types.NewUser{Pseudo: types.StringPtr("al")}

	repo.On("Create", ctx, input).Return(user, nil)
	repo.On("Update", ctx, 3, patch).Return(user, nil)
	repo.On("Delete", ctx, 3).Return(int64(1), nil)
	repo.On("Login", ctx, "a@x.com", "pw").Return("tok", nil)
	repo.On("GetByEmail", ctx, "a@x.com").Return(user, nil)

	pub.On("Publish", ctx, mock.MatchedBy(func(evt events.Event) bool {
		return evt.Type == events.UserCreated && evt.UserID == 3 && evt.Email == "a@x.com"
	})).Return(nil).Once()
	pub.On("Publish", ctx, eventOfType(events.UserUpdated)).Return(nil).Once()
	pub.On("Publish", ctx, mock.MatchedBy(func(evt events.Event) bool {
		return evt.Type == events.UserDeleted && evt.UserID == 3
	})).Return(nil).Once()
	pub.On("Publish", ctx, mock.MatchedBy(func(evt events.Event) bool {
		return evt.Type == events.UserLoggedIn && evt.Email == "a@x.com" && evt.UserID == 3
	})).Return(nil).Once()

	_, err := n.Create(ctx, input)
	require.NoError(t, err)
	_, err = n.Update(ctx, 3, patch)
	require.NoError(t, err)
	_, err = n.Delete(ctx, 3)
	require.NoError(t, err)
	token, err := n.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	pub.AssertExpectations(t)
}

func TestNotifyingRepositorySkipsNoops(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	pub := new(MockPublisher)
	n := services.NewNotifyingRepository(repo, pub, nil)

	repo.On("Delete", ctx, 9).Return(int64(0), nil)
	repo.On("Update", ctx, 9, types.NewUser{}).Return(types.User{ID: 9}, nil)
	repo.On("Login", ctx, "a@x.com", "bad").Return("", errors.New("invalid credentials"))
	repo.On("GetByID", ctx, 9).Return(types.User{ID: 9}, nil)

	deleted, err := n.Delete(ctx, 9)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	_, err = n.Update(ctx, 9, types.NewUser{})
	require.NoError(t, err)

	_, err = n.Login(ctx, "a@x.com", "bad")
	require.Error(t, err)

	_, err = n.GetByID(ctx, 9)
	require.NoError(t, err)

	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestNotifyingRepositoryLogsPublishFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	pub := new(MockPublisher)

	var buf bytes.Buffer
	n := services.NewNotifyingRepository(repo, pub, slog.New(slog.NewTextHandler(&buf, nil)))

	repo.On("Delete", ctx, 4).Return(int64(1), nil)
	pub.On("Publish", ctx, eventOfType(events.UserDeleted)).Return(errors.New("broker down"))

	deleted, err := n.Delete(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Contains(t, buf.String(), "broker down")
}

func TestNotifyingRepositoryLoginEventWithoutUserID(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	pub := new(MockPublisher)

	var buf bytes.Buffer
	n := services.NewNotifyingRepository(repo, pub, slog.New(slog.NewTextHandler(&buf, nil)))

	repo.On("Login", ctx, "a@x.com", "pw").Return("tok", nil)
	repo.On("GetByEmail", ctx, "a@x.com").Return(types.User{}, errors.New("db down"))
	pub.On("Publish", ctx, mock.MatchedBy(func(evt events.Event) bool {
		return evt.Type == events.UserLoggedIn && evt.Email == "a@x.com" && evt.UserID == 0
	})).Return(nil).Once()

	token, err := n.Login(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Contains(t, buf.String(), "db down")
	pub.AssertExpectations(t)
}
