package services

import (
	"context"
	"errors"

	"github.com/rentfleet/apiserver/internal/errs"
	"github.com/rentfleet/apiserver/internal/store"
	"github.com/rentfleet/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt cost used for every stored password.
const PasswordHashCost = 10

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// UserService encapsulates registration and credential checks.
type UserService struct {
	repo   UserRepository
	events *Events
}

func NewUserService(repo UserRepository, events *Events) *UserService {
	return &UserService{repo: repo, events: events}
}

// Register hashes password and stores user. The returned user carries the
// generated id and the hash, which callers must not echo back.
func (s *UserService) Register(ctx context.Context, user types.User, password string) (types.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return types.User{}, errs.Validation("password is too long", "password")
		}
		return types.User{}, errs.Internal("users.hash", err)
	}
	user.PasswordHash = string(hashed)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return types.User{}, err
	}

	s.events.publish(ctx, ChannelUserRegistered, userRegisteredEvent{
		ID:       created.ID,
		Username: created.Username,
		Role:     created.Role,
		Email:    created.Email,
	})
	return created, nil
}

// Login checks the credentials of username. Both an unknown username and a
// wrong password are auth errors.
func (s *UserService) Login(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, errs.Auth("user not found")
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return types.User{}, errs.Auth("invalid password")
		}
		return types.User{}, errs.Internal("users.verify", err)
	}
	return user, nil
}
