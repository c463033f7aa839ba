package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/usersvc/apiserver/types"
)

// MockUserService implements the handlers' user service
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, input types.NewUser) (types.User, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id int) (types.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockUserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockUserService) GetAll(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]types.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id int, patch types.NewUser) (types.User, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}
