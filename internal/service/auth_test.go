package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/snippetvault/internal/apperror"
	"github.com/sakif/snippetvault/internal/auth"
	"github.com/sakif/snippetvault/internal/session"
)

// =========================================================================
// HELPERS
// =========================================================================

func newTestAuthService(t *testing.T) (*AuthService, session.Store) {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret-thats-long-enough")
	if err != nil {
		t.Fatalf("setup: NewTokenService() error = %v", err)
	}

	sessions := session.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// MinCost keeps the bcrypt work factor out of the test runtime.
	svc := NewAuthService(
		newMockUserRepo(),
		tokens,
		auth.NewPasswordServiceWithCost(bcrypt.MinCost),
		sessions,
		logger,
	)
	return svc, sessions
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("expected user to have an ID")
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
	if user.PasswordHash == "" || user.PasswordHash == "s3cret" {
		t.Error("expected a stored hash, never the plaintext")
	}
}

func TestRegister_NormalizesUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "  Alice  ", "s3cret")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want trimmed + lowercased %q", user.Username, "alice")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "alice", "first"); err != nil {
		t.Fatalf("setup: Register() error = %v", err)
	}

	// Same name modulo case must collide.
	_, err := svc.Register(context.Background(), "ALICE", "second")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "s3cret"},
		{"whitespace username", "   ", "s3cret"},
		{"empty password", "alice", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	svc, sessions := newTestAuthService(t)
	registered, _ := svc.Register(context.Background(), "alice", "s3cret")

	result, err := svc.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if result.User.ID != registered.ID {
		t.Errorf("logged-in user = %s, want %s", result.User.ID, registered.ID)
	}
	if result.Token == "" {
		t.Fatal("expected a session token")
	}

	// The token must reference a live session for the same user.
	tokens, _ := auth.NewTokenService("test-secret-thats-long-enough")
	sessionID, userID, err := tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != registered.ID {
		t.Errorf("token userID = %s, want %s", userID, registered.ID)
	}
	sess, ok := sessions.Get(sessionID)
	if !ok {
		t.Fatal("token references a session the store does not hold")
	}
	if sess.UserID != registered.ID {
		t.Errorf("session UserID = %s, want %s", sess.UserID, registered.ID)
	}
}

func TestLogin_CaseInsensitiveUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)
	svc.Register(context.Background(), "alice", "s3cret")

	if _, err := svc.Login(context.Background(), "  ALICE ", "s3cret"); err != nil {
		t.Errorf("Login() with differently-cased username error = %v", err)
	}
}

func TestLogin_AllFailuresLookAlike(t *testing.T) {
	svc, _ := newTestAuthService(t)
	svc.Register(context.Background(), "alice", "s3cret")

	// A GitHub-only account has no password hash and must not be
	// log-in-able with any password.
	if _, err := svc.LoginWithGitHub(context.Background(), &auth.GitHubUser{ID: 42, Login: "octo"}); err != nil {
		t.Fatalf("setup: LoginWithGitHub() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown username", "nobody", "s3cret"},
		{"wrong password", "alice", "wrong"},
		{"password-less account", "gh-octo", "anything"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.username, tt.password)
			if !errors.Is(err, apperror.ErrInvalidCredentials) {
				t.Errorf("error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

// =========================================================================
// LOGOUT TESTS
// =========================================================================

func TestLogout_DestroysSession(t *testing.T) {
	svc, sessions := newTestAuthService(t)
	svc.Register(context.Background(), "alice", "s3cret")
	result, _ := svc.Login(context.Background(), "alice", "s3cret")

	tokens, _ := auth.NewTokenService("test-secret-thats-long-enough")
	sessionID, _, err := tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	svc.Logout(context.Background(), sessionID)

	// The token is still cryptographically valid; the session is gone,
	// which is what actually locks the caller out.
	if _, ok := sessions.Get(sessionID); ok {
		t.Error("expected session to be destroyed after logout")
	}
}

// =========================================================================
// GITHUB SIGN-IN TESTS
// =========================================================================

func TestLoginWithGitHub_FirstSignInCreatesAccount(t *testing.T) {
	svc, _ := newTestAuthService(t)

	result, err := svc.LoginWithGitHub(context.Background(), &auth.GitHubUser{ID: 42, Login: "OctoCat"})
	if err != nil {
		t.Fatalf("LoginWithGitHub() error = %v", err)
	}

	if result.User.Username != "gh-octocat" {
		t.Errorf("Username = %q, want %q", result.User.Username, "gh-octocat")
	}
	if result.User.GitHubID != 42 {
		t.Errorf("GitHubID = %d, want 42", result.User.GitHubID)
	}
	if result.User.PasswordHash != "" {
		t.Error("a GitHub account must not carry a password hash")
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}
}

func TestLoginWithGitHub_ReturningUserIsReused(t *testing.T) {
	svc, _ := newTestAuthService(t)

	first, err := svc.LoginWithGitHub(context.Background(), &auth.GitHubUser{ID: 42, Login: "octo"})
	if err != nil {
		t.Fatalf("LoginWithGitHub() error = %v", err)
	}
	second, err := svc.LoginWithGitHub(context.Background(), &auth.GitHubUser{ID: 42, Login: "octo"})
	if err != nil {
		t.Fatalf("second LoginWithGitHub() error = %v", err)
	}

	if first.User.ID != second.User.ID {
		t.Errorf("same GitHub ID resolved to two users: %s vs %s", first.User.ID, second.User.ID)
	}
}
