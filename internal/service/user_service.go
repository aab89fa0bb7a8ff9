package service

import (
	"context"
	"errors"
	"strings"

	dom "Bookmarker/internal/domain"
	"Bookmarker/internal/repo"
	"Bookmarker/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// The same generic error is returned for an unknown email and a wrong
// password so a caller cannot probe which emails are registered.
var ErrInvalidCredentials = errors.New("credentials incorrect")

var ErrEmailTaken = errors.New("credentials taken")

// UserService handles signup, credential validation and self-profile edits.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user with a hashed password.
func (s *UserService) Register(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, email, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// ValidateCredentials checks email and password; returns the user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetSelf returns the caller's own profile.
func (s *UserService) GetSelf(ctx context.Context, userID int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// EditSelf applies only the supplied fields to the caller's own record.
func (s *UserService) EditSelf(ctx context.Context, userID int64, email, firstName, lastName *string) (dom.User, error) {
	existing, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	patch := existing
	if email != nil {
		patch.Email = strings.TrimSpace(*email)
	}
	if firstName != nil {
		patch.FirstName = firstName
	}
	if lastName != nil {
		patch.LastName = lastName
	}
	u, err := s.repo.Update(ctx, userID, patch)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}
