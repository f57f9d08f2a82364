// Package repository declares the storage interfaces consumed by the service
// layer. Services depend on these interfaces, never on a concrete backend —
// the flat-file implementation lives in repository/jsonfile, and tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/snippetvault/internal/model"
)

type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	// ListByOwner returns the owner's snippets in storage (creation) order.
	// Callers that need newest-first sort the result themselves.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Snippet, error)
	Update(ctx context.Context, snippet *model.Snippet) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	// Create stores a new user. The username must already be normalized;
	// a case-insensitive duplicate yields apperror.ErrConflict.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
}
