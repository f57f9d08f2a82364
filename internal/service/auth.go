// Package service — authentication business logic.
//
// AuthService is the auth gateway the rest of the system trusts: it turns
// credentials into stored users and live sessions, and nothing downstream
// ever sees a password again — the snippet layer only consumes the caller
// identity the session middleware resolves.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippetvault/internal/apperror"
	"github.com/sakif/snippetvault/internal/auth"
	"github.com/sakif/snippetvault/internal/model"
	"github.com/sakif/snippetvault/internal/repository"
	"github.com/sakif/snippetvault/internal/session"
)

// AuthService handles registration, login, logout, and the optional GitHub
// sign-in. Dependencies are injected; the service owns none of them.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	sessions  session.Store
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	sessions session.Store,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		sessions:  sessions,
		logger:    logger,
	}
}

// AuthResult bundles the authenticated user with the signed session token,
// so the HTTP handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// The username is normalized (trimmed + lowercased) before the uniqueness
// check, so "Alice" and "alice" are the same name. A taken username
// surfaces as apperror.ErrConflict.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Login verifies credentials and establishes a session.
//
// ONE ERROR FOR EVERY FAILURE MODE:
// Unknown username, missing password hash (GitHub-only account), and hash
// mismatch all return the same ErrInvalidCredentials. Distinguishing them
// would hand an attacker a username oracle.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.InvalidCredentials()
	}
	if user.PasswordHash == "" {
		return nil, apperror.InvalidCredentials()
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	return s.establishSession(user)
}

// Logout destroys the session. The cookie's signature stays valid until
// expiry, but without a live session entry the middleware rejects it.
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	s.sessions.Destroy(sessionID)
	s.logger.Info("session destroyed", slog.String("sessionID", sessionID))
}

// LoginWithGitHub finds or creates the account linked to a GitHub profile
// and establishes a session, exactly as a password login would.
//
// First sign-in creates a user with username "gh-<login>" and no password.
// If that name is somehow taken by a password account, registration of the
// OAuth user fails with the conflict rather than hijacking the name.
func (s *AuthService) LoginWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user, err := s.users.GetByGitHubID(ctx, ghUser.ID)
	if err != nil {
		user = &model.User{
			Username: "gh-" + strings.ToLower(ghUser.Login),
			GitHubID: ghUser.ID,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("service/auth: creating GitHub user %d: %w", ghUser.ID, err)
		}
		s.logger.Info("user registered via GitHub",
			slog.String("userID", user.ID),
			slog.String("username", user.Username),
		)
	}

	return s.establishSession(user)
}

// GetUserByID returns the user for the given internal ID. Used by handlers
// that need the full record after the middleware resolves the session.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user ID must not be empty")
	}
	return s.users.GetByID(ctx, id)
}

// establishSession creates a store-backed session for the user and signs
// the token that references it.
func (s *AuthService) establishSession(user *model.User) (*AuthResult, error) {
	sess := s.sessions.Create(user.ID, auth.SessionTTL)

	token, err := s.tokens.Generate(sess.ID, user.ID)
	if err != nil {
		s.sessions.Destroy(sess.ID)
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}
