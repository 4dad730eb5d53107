// Package session supplies the identity of the current actor: signup,
// login, sign-out, profile updates, and token validation. Holders of
// per-actor state register sign-out listeners so they can unbind when the
// identity goes away.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	stdsync "sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopcart-api/internal/domain"
	userrepo "shopcart-api/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmailTaken is returned when the signup email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// SignOutListener is notified after an actor signs out.
type SignOutListener func(userID string)

// Service handles actor signup/login flows.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	passwordMin int

	mu        stdsync.Mutex
	listeners []SignOutListener
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(jwtSecret, tokenTTL),
		passwordMin: 8,
	}
}

// OnSignOut registers a listener invoked whenever an actor signs out.
func (s *Service) OnSignOut(fn SignOutListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup registers a new actor with the customer role. The role field is
// not accepted from the caller; promoting an actor is an admin operation.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, "", errors.New("email required")
	}
	if err := validatePassword(in.Password, s.passwordMin); err != nil {
		return nil, "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(in.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	created, err := s.repo.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hashed),
		Role:         domain.RoleCustomer,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(created.ID, created.Email, created.Name, created.Role, time.Now())
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login validates credentials and returns the actor plus an issued token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.ID, u.Email, u.Name, u.Role, time.Now())
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// SignOut notifies listeners that the actor's identity is gone. Tokens are
// stateless; revocation is the listeners' concern (pending list writes get
// flushed and dropped there).
func (s *Service) SignOut(_ context.Context, userID string) {
	s.mu.Lock()
	listeners := append([]SignOutListener(nil), s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(userID)
	}
}

// LookupByToken returns the actor bound to a valid token. The profile is
// re-read so a role change since issuance takes effect immediately.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes the actor's display name and email. Role is
// deliberately unreachable from this path.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("email required")
	}
	return s.repo.UpdateProfile(ctx, userID, strings.TrimSpace(name), email)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(current))); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(next, s.passwordMin); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(next)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(hashed))
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
