package jsonfile

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/snippetvault/internal/apperror"
	"github.com/sakif/snippetvault/internal/model"
)

func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "$2a$04$fakefakefakefakefakefake"}
	if err := db.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "alice")
	if user.ID == "" {
		t.Error("Create() should assign an ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() should set CreatedAt")
	}
}

func TestUserCreate_DuplicateUsernameConflicts(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")

	err := db.Users.Create(context.Background(), &model.User{Username: "alice"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestUserCreate_DuplicateIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice")

	// The service normalizes usernames to lowercase, but the repository's
	// uniqueness check must not depend on that.
	err := db.Users.Create(context.Background(), &model.User{Username: "ALICE"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestUserGetByUsername_CaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice")

	got, err := db.Users.GetByUsername(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}
}

func TestUserGetByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUserPasswordHash_SurvivesReopen(t *testing.T) {
	// model.User hides PasswordHash from JSON responses with json:"-";
	// the storage mapping must still persist it.
	dir := t.TempDir()
	db, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	user := &model.User{Username: "alice", PasswordHash: "$2a$04$somethinghashed"}
	if err := db.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	got, err := reopened.Users.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, user.PasswordHash)
	}
}

func TestUserGetByGitHubID(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Username: "gh-sakif", GitHubID: 1234567}
	if err := db.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := db.Users.GetByGitHubID(context.Background(), 1234567)
	if err != nil {
		t.Fatalf("GetByGitHubID() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %q, want %q", got.ID, user.ID)
	}

	// Zero must never match the password accounts that carry no GitHub id.
	createTestUser(t, db, "alice")
	if _, err := db.Users.GetByGitHubID(context.Background(), 0); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByGitHubID(0) error = %v, want ErrNotFound", err)
	}
}
