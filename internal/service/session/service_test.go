package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shopcart-api/internal/domain"
)

type stubUserRepo struct {
	created     *domain.User
	createErr   error
	lastCreated domain.User
	byID        *domain.User
	byIDErr     error
	byEmail     *domain.User
	byEmailErr  error
	lastEmail   string

	updatedName  string
	updatedEmail string
	newHash      string
}

func (s *stubUserRepo) Create(_ context.Context, u domain.User) (*domain.User, error) {
	s.lastCreated = u
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.created != nil {
		return s.created, nil
	}
	return &u, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, _ string) (*domain.User, error) {
	return s.byID, s.byIDErr
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.lastEmail = email
	return s.byEmail, s.byEmailErr
}

func (s *stubUserRepo) List(_ context.Context) ([]domain.User, error) { return nil, nil }

func (s *stubUserRepo) UpdateProfile(_ context.Context, id, name, email string) (*domain.User, error) {
	s.updatedName = name
	s.updatedEmail = email
	return &domain.User{ID: id, Name: name, Email: email}, nil
}

func (s *stubUserRepo) UpdatePassword(_ context.Context, _, passwordHash string) error {
	s.newHash = passwordHash
	return nil
}

func (s *stubUserRepo) UpdateRole(_ context.Context, id, role string) (*domain.User, error) {
	return &domain.User{ID: id, Role: role}, nil
}

func (s *stubUserRepo) Delete(_ context.Context, _ string) error { return nil }

func newService(repo *stubUserRepo) *Service {
	return New(repo, "test-secret", time.Hour)
}

func TestSignupAssignsCustomerRole(t *testing.T) {
	repo := &stubUserRepo{}
	svc := newService(repo)

	u, token, err := svc.Signup(context.Background(), SignupInput{
		Email:    "  Ada@Example.COM ",
		Password: "Sup3rSecret",
		Name:     " Ada ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleCustomer {
		t.Fatalf("signup must always assign customer role, got %q", u.Role)
	}
	if repo.lastCreated.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", repo.lastCreated.Email)
	}
	if repo.lastCreated.Name != "Ada" {
		t.Fatalf("name not trimmed: %q", repo.lastCreated.Name)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if repo.lastCreated.PasswordHash == "Sup3rSecret" {
		t.Fatalf("password stored unhashed")
	}
}

func TestSignupPasswordRules(t *testing.T) {
	svc := newService(&stubUserRepo{})
	cases := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1"},
		{"no uppercase", "alllower1"},
		{"no digit", "NoDigitsHere"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.c", Password: tc.password})
			if err == nil {
				t.Fatalf("expected password rejection")
			}
		})
	}
}

func TestSignupEmailTaken(t *testing.T) {
	svc := newService(&stubUserRepo{createErr: domain.ErrConflict})
	_, _, err := svc.Signup(context.Background(), SignupInput{Email: "a@b.c", Password: "Sup3rSecret"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Sup3rSecret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubUserRepo{byEmail: &domain.User{ID: "u1", Email: "a@b.c", PasswordHash: string(hash)}}
	svc := newService(repo)

	u, token, err := svc.Login(context.Background(), " A@B.C ", "Sup3rSecret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" || token == "" {
		t.Fatalf("login result wrong: %+v token=%q", u, token)
	}
	if repo.lastEmail != "a@b.c" {
		t.Fatalf("email not normalized for lookup: %q", repo.lastEmail)
	}

	if _, _, err := svc.Login(context.Background(), "a@b.c", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newService(&stubUserRepo{byEmailErr: domain.ErrNotFound})
	if _, _, err := svc.Login(context.Background(), "a@b.c", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLookupByTokenReReadsProfile(t *testing.T) {
	repo := &stubUserRepo{byID: &domain.User{ID: "u1", Role: domain.RoleCustomer}}
	svc := newService(repo)

	token, err := svc.tokens.Issue("u1", "a@b.c", "Ada", domain.RoleCustomer, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// A role change after issuance must be visible on the next lookup.
	repo.byID = &domain.User{ID: "u1", Role: domain.RoleAdmin}
	u, err := svc.LookupByToken(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Role != domain.RoleAdmin {
		t.Fatalf("stale role served from token: %q", u.Role)
	}
}

func TestLookupByTokenRejectsGarbage(t *testing.T) {
	svc := newService(&stubUserRepo{})
	if _, err := svc.LookupByToken(context.Background(), "not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestLookupByTokenRejectsForeignSignature(t *testing.T) {
	other := New(&stubUserRepo{}, "different-secret", time.Hour)
	token, err := other.tokens.Issue("u1", "a@b.c", "Ada", domain.RoleCustomer, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc := newService(&stubUserRepo{byID: &domain.User{ID: "u1"}})
	if _, err := svc.LookupByToken(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestSignOutNotifiesListeners(t *testing.T) {
	svc := newService(&stubUserRepo{})
	var got []string
	svc.OnSignOut(func(userID string) { got = append(got, userID) })
	svc.OnSignOut(func(userID string) { got = append(got, "second:"+userID) })

	svc.SignOut(context.Background(), "u1")
	if len(got) != 2 || got[0] != "u1" || got[1] != "second:u1" {
		t.Fatalf("listeners not notified in order: %v", got)
	}
}

func TestUpdateProfileNeverTouchesRole(t *testing.T) {
	repo := &stubUserRepo{}
	svc := newService(repo)

	u, err := svc.UpdateProfile(context.Background(), "u1", " Ada ", " ADA@B.C ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.updatedName != "Ada" || repo.updatedEmail != "ada@b.c" {
		t.Fatalf("profile fields not normalized: %q %q", repo.updatedName, repo.updatedEmail)
	}
	if u.Role != "" {
		t.Fatalf("profile update produced a role: %q", u.Role)
	}
}

func TestChangePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("OldSecret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubUserRepo{byID: &domain.User{ID: "u1", PasswordHash: string(hash)}}
	svc := newService(repo)

	if err := svc.ChangePassword(context.Background(), "u1", "wrong", "NewSecret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), "u1", "OldSecret1", "weak"); err == nil {
		t.Fatalf("expected weak password rejection")
	}
	if err := svc.ChangePassword(context.Background(), "u1", "OldSecret1", "NewSecret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.newHash == "" || strings.Contains(repo.newHash, "NewSecret1") {
		t.Fatalf("new password not hashed: %q", repo.newHash)
	}
}
