package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/usersvc/apiserver/internal/events"
	"github.com/usersvc/apiserver/types"
)

// MockUserRepository implements services.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, input types.NewUser) (types.User, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]types.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]types.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id int, patch types.NewUser) (types.User, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(types.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

// MockPublisher implements services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, evt events.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func eventOfType(t events.Type) any {
	return mock.MatchedBy(func(evt events.Event) bool {
		return evt.Type == t && evt.ID != ""
	})
}
