package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/usersvc/apiserver/internal/auth"
	"github.com/usersvc/apiserver/types"
	"gorm.io/gorm"
)

// PasswordHasher hashes passwords before they are stored and verifies them at login.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

// TokenSigner issues the token returned by a successful login.
type TokenSigner interface {
	NewClaims(subject string) auth.Claims
	Issue(claims auth.Claims) (string, error)
}

// UserRepository handles persistence for users.
type UserRepository struct {
	db     *gorm.DB
	hasher PasswordHasher
	tokens TokenSigner
}

func NewUserRepository(db *gorm.DB, hasher PasswordHasher, tokens TokenSigner) *UserRepository {
	return &UserRepository{
		db:     db,
		hasher: hasher,
		tokens: tokens,
	}
}

// Create hashes the supplied password, inserts the row and returns it with its generated ID.
func (r *UserRepository) Create(ctx context.Context, input types.NewUser) (types.User, error) {
	if input.PasswordHash == nil || *input.PasswordHash == "" {
		return types.User{}, ErrPasswordRequired
	}

	hashed, err := r.hasher.Hash(*input.PasswordHash)
	if err != nil {
		return types.User{}, err
	}

	user := types.User{
		Pseudo:       input.Pseudo,
		Email:        input.Email,
		PasswordHash: &hashed,
		Role:         input.Role,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return types.User{}, translateError(err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	return firstUser(r.db.WithContext(ctx), "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return firstUser(r.db.WithContext(ctx), "email = ?", email)
}

// GetAll returns every user ordered by ID.
func (r *UserRepository) GetAll(ctx context.Context) ([]types.User, error) {
	users := make([]types.User, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies the fields present in patch to the user with the given ID.
// A supplied password is hashed; absent fields keep their stored values.
func (r *UserRepository) Update(ctx context.Context, id int, patch types.NewUser) (types.User, error) {
	updates := make(map[string]any, 4)
	if patch.Pseudo != nil {
		updates["pseudo"] = *patch.Pseudo
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Role != nil {
		updates["role"] = *patch.Role
	}
	if patch.PasswordHash != nil {
		hashed, err := r.hasher.Hash(*patch.PasswordHash)
		if err != nil {
			return types.User{}, err
		}
		updates["password_hash"] = hashed
	}

	var updated types.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			result := tx.Model(&types.User{}).Where("id = ?", id).Updates(updates)
			if result.Error != nil {
				return translateError(result.Error)
			}
			if result.RowsAffected == 0 {
				return ErrNotFound
			}
		}

		user, err := firstUser(tx, "id = ?", id)
		if err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return types.User{}, err
	}
	return updated, nil
}

// Delete removes the user with the given ID and returns how many rows were deleted.
// Deleting a missing ID is not an error.
func (r *UserRepository) Delete(ctx context.Context, id int) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&types.User{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Login checks the password of the user registered under email and returns a
// signed token whose subject is that email.
func (r *UserRepository) Login(ctx context.Context, email, password string) (string, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if user.PasswordHash == nil || *user.PasswordHash == "" || user.Email == nil {
		return "", ErrInvalidCredentials
	}

	ok, err := r.hasher.Verify(password, *user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("user %d: %w", user.ID, err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	return r.tokens.Issue(r.tokens.NewClaims(*user.Email))
}

func firstUser(db *gorm.DB, query string, args ...any) (types.User, error) {
	var user types.User
	if err := db.Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}
