package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/compliance-binder/internal/apperror"
	"github.com/sakif/compliance-binder/internal/auth"
)

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()

	repo := newMockUserRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	return NewAuthService(repo, tokens, passwords, testLogger()), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), "  Alice@Example.COM ", "hunter22hunter")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want normalised alice@example.com", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "hunter22hunter" {
		t.Error("password must be stored as a bcrypt hash")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice@example.com", "hunter22hunter"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	_, err := svc.Register(ctx, "ALICE@example.com", "another-password")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("duplicate Register() error = %v, want ErrConflict", err)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "hunter22hunter"},
		{"no at sign", "alice.example.com", "hunter22hunter"},
		{"two at signs", "a@b@example.com", "hunter22hunter"},
		{"no domain dot", "alice@example", "hunter22hunter"},
		{"short password", "alice@example.com", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.email, tc.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register(%q, %q) error = %v, want ErrValidation", tc.email, tc.password, err)
			}
		})
	}
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice@example.com", "hunter22hunter")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := svc.Login(ctx, "Alice@Example.com", "hunter22hunter")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.User.ID != registered.ID {
		t.Errorf("Login() user = %q, want %q", result.User.ID, registered.ID)
	}
	if result.Token == "" {
		t.Error("Login() returned empty token")
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	svc.Register(ctx, "alice@example.com", "hunter22hunter")

	_, errWrongPass := svc.Login(ctx, "alice@example.com", "wrong-password")
	_, errNoUser := svc.Login(ctx, "nobody@example.com", "hunter22hunter")

	if !errors.Is(errWrongPass, apperror.ErrValidation) {
		t.Errorf("wrong password error = %v, want ErrValidation", errWrongPass)
	}
	if !errors.Is(errNoUser, apperror.ErrValidation) {
		t.Errorf("unknown email error = %v, want ErrValidation", errNoUser)
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Errorf("errors differ (%q vs %q); they must not reveal which field was wrong",
			errWrongPass.Error(), errNoUser.Error())
	}
}

func TestLoginOrRegisterGitHub_KeepsInternalID(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	gh := &auth.GitHubUser{ID: 9001, Login: "alice", Email: "alice@example.com"}

	first, err := svc.LoginOrRegisterGitHub(ctx, gh)
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}

	gh.Email = "new-alice@example.com"
	second, err := svc.LoginOrRegisterGitHub(ctx, gh)
	if err != nil {
		t.Fatalf("second LoginOrRegisterGitHub() error = %v", err)
	}

	if second.User.ID != first.User.ID {
		t.Errorf("internal ID changed on re-login: %q vs %q", first.User.ID, second.User.ID)
	}
	if second.User.Email != "new-alice@example.com" {
		t.Errorf("email = %q, want refreshed new-alice@example.com", second.User.Email)
	}
}

func TestLogin_GitHubOnlyAccountHasNoPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	gh := &auth.GitHubUser{ID: 9001, Login: "alice", Email: "alice@example.com"}
	if _, err := svc.LoginOrRegisterGitHub(ctx, gh); err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}

	_, err := svc.Login(ctx, "alice@example.com", "any-password")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Login() on GitHub-only account error = %v, want ErrValidation", err)
	}
}

func TestGetUserByID(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	registered, _ := svc.Register(ctx, "alice@example.com", "hunter22hunter")

	user, err := svc.GetUserByID(ctx, registered.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q", user.Email)
	}

	if _, err := svc.GetUserByID(ctx, "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID(missing) error = %v, want ErrNotFound", err)
	}
}
