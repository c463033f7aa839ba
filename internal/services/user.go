package services

import (
	"context"

	"github.com/usersvc/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, input types.NewUser) (types.User, error)
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	GetAll(ctx context.Context) ([]types.User, error)
	Update(ctx context.Context, id int, patch types.NewUser) (types.User, error)
	Delete(ctx context.Context, id int) (int64, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Create(ctx context.Context, input types.NewUser) (types.User, error) {
	return s.repo.Create(ctx, input)
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) GetAll(ctx context.Context) ([]types.User, error) {
	return s.repo.GetAll(ctx)
}

// Update applies patch to the user with the given ID. Only the fields set in
// patch are written.
func (s *UserService) Update(ctx context.Context, id int, patch types.NewUser) (types.User, error) {
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the user and reports how many rows were deleted.
func (s *UserService) Delete(ctx context.Context, id int) (int64, error) {
	return s.repo.Delete(ctx, id)
}

// Login checks the credentials and returns a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	return s.repo.Login(ctx, email, password)
}
