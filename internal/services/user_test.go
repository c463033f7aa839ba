package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usersvc/apiserver/internal/services"
	"github.com/usersvc/apiserver/types"
)

func TestUserServiceDelegates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := services.NewUserService(repo)

	input := types.NewUser{Email: types.StringPtr("a@x.com"), PasswordHash: types.StringPtr("secret123")}
	created := types.User{ID: 7, Email: input.Email}
	patch := types.NewUser{Role: types.StringPtr("admin")}

	repo.On("Create", ctx, input).Return(created, nil)
	repo.On("GetByID", ctx, 7).Return(created, nil)
	repo.On("GetByEmail", ctx, "a@x.com").Return(created, nil)
	repo.On("GetAll", ctx).Return([]types.User{created}, nil)
	repo.On("Update", ctx, 7, patch).Return(created, nil)
	repo.On("Delete", ctx, 7).Return(int64(1), nil)
	repo.On("Login", ctx, "a@x.com", "secret123").Return("token", nil)

	got, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got, err = svc.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got, err = svc.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.Update(ctx, 7, patch)
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	token, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "token", token)

	repo.AssertExpectations(t)
}

func TestUserServicePassesErrorsThrough(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := services.NewUserService(repo)

	boom := errors.New("boom")
	repo.On("GetByID", ctx, 1).Return(types.User{}, boom)

	_, err := svc.GetByID(ctx, 1)
	assert.ErrorIs(t, err, boom)
}
