package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "learnjournal/internal/errors"
	"learnjournal/internal/model"
	"learnjournal/internal/repository"
)

// DefaultBcryptCost is the bcrypt work factor used when none is configured.
const DefaultBcryptCost = 10

// UserService exposes user and journal listing operations.
type UserService interface {
	CreateUser(ctx context.Context, username, email, password string, isAdmin bool) (*model.User, error)
	// VerifyLogin returns ErrNotFound for an unknown email and (nil, false, nil)
	// for a wrong password.
	VerifyLogin(ctx context.Context, email, password string) (*model.User, bool, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetJournal(ctx context.Context, userID uint) ([]model.Entry, error)
	GetTaggedJournal(ctx context.Context, userID uint, tag string) ([]model.Entry, error)
	Bootstrap(ctx context.Context, username, email, password string) (*model.User, error)
}

type userService struct {
	users      repository.UserRepository
	entries    repository.EntryRepository
	bcryptCost int
	now        func() time.Time

	// dummyHash is compared against for unknown emails so that a login
	// costs one bcrypt comparison whether or not the account exists.
	dummyHash []byte
	compare   func(hash, password []byte) error
}

// NewUserService builds a UserService. A bcryptCost of 0 selects DefaultBcryptCost.
func NewUserService(users repository.UserRepository, entries repository.EntryRepository, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	// A failure here leaves dummyHash nil; the comparison then fails fast
	// and login answers stay correct.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("learnjournal-no-such-user"), bcryptCost)
	return &userService{
		users:      users,
		entries:    entries,
		bcryptCost: bcryptCost,
		now:        time.Now,
		dummyHash:  dummy,
		compare:    bcrypt.CompareHashAndPassword,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser hashes the password and stores the user in one transaction.
func (s *userService) CreateUser(ctx context.Context, username, email, password string, isAdmin bool) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		JoinedAt:     s.now(),
		IsAdmin:      isAdmin,
	}

	err = s.users.WithTransaction(ctx, func(ctx context.Context, tx repository.UserRepository) error {
		exists, err := tx.ExistsByUsernameOrEmail(ctx, username, email)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrDuplicateUser
		}
		return tx.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) VerifyLogin(ctx context.Context, email, password string) (*model.User, bool, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperrors.ErrNotFound) {
		_ = s.compare(s.dummyHash, []byte(password))
		return nil, false, err
	}
	if err != nil {
		return nil, false, err
	}
	if err := s.compare([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, false, nil
	}
	return user, true, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *userService) GetJournal(ctx context.Context, userID uint) ([]model.Entry, error) {
	return s.entries.ListByUser(ctx, userID)
}

func (s *userService) GetTaggedJournal(ctx context.Context, userID uint, tag string) ([]model.Entry, error) {
	return s.entries.ListByUserAndTag(ctx, userID, tag)
}

// Bootstrap creates an admin account, or returns nil when one with the same
// username or email already exists.
func (s *userService) Bootstrap(ctx context.Context, username, email, password string) (*model.User, error) {
	user, err := s.CreateUser(ctx, username, email, password, true)
	if errors.Is(err, apperrors.ErrDuplicateUser) {
		return nil, nil
	}
	return user, err
}
