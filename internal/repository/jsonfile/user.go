package jsonfile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snippetvault/internal/apperror"
	"github.com/sakif/snippetvault/internal/model"
	"github.com/sakif/snippetvault/internal/repository"
)

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

// storedUser is the on-disk shape of a user record.
//
// model.User tags PasswordHash with json:"-" so it can never leak into an
// API response. The store still has to persist it, so the repository maps
// through this private struct instead of marshaling model.User directly.
type storedUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	GitHubID     int64     `json:"githubId,omitempty"`
	CreatedAt    time.Time `json:"created"`
}

func (u storedUser) toModel() *model.User {
	return &model.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		GitHubID:     u.GitHubID,
		CreatedAt:    u.CreatedAt,
	}
}

// UserRepo stores users as one JSON array in the record store.
// Same single-writer locking discipline as SnippetRepo.
type UserRepo struct {
	store Storage
	mu    sync.Mutex
}

// Create stores a new user. Username uniqueness is checked case-insensitively
// inside the lock, so two concurrent registrations of the same name cannot
// both succeed.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []storedUser
	if err := r.store.Load(usersCollection, &all); err != nil {
		return err
	}

	for _, u := range all {
		if strings.EqualFold(u.Username, user.Username) {
			return apperror.Conflict(fmt.Sprintf("username %q is already taken", user.Username))
		}
	}

	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	all = append(all, storedUser{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		GitHubID:     user.GitHubID,
		CreatedAt:    user.CreatedAt,
	})
	return r.store.Save(usersCollection, all)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []storedUser
	if err := r.store.Load(usersCollection, &all); err != nil {
		return nil, err
	}
	for _, u := range all {
		if u.ID == id {
			return u.toModel(), nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

// GetByUsername looks a user up by normalized username. The match is
// case-insensitive, consistent with the uniqueness rule in Create.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []storedUser
	if err := r.store.Load(usersCollection, &all); err != nil {
		return nil, err
	}
	for _, u := range all {
		if strings.EqualFold(u.Username, username) {
			return u.toModel(), nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

// GetByGitHubID finds the account linked to a GitHub user id.
// Zero is never a valid GitHub id, so it can't match a password account.
func (r *UserRepo) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []storedUser
	if err := r.store.Load(usersCollection, &all); err != nil {
		return nil, err
	}
	for _, u := range all {
		if u.GitHubID != 0 && u.GitHubID == githubID {
			return u.toModel(), nil
		}
	}
	return nil, apperror.NotFound("user", fmt.Sprintf("github:%d", githubID))
}
