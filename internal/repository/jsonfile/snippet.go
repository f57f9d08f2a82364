package jsonfile

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snippetvault/internal/apperror"
	"github.com/sakif/snippetvault/internal/model"
	"github.com/sakif/snippetvault/internal/repository"
)

// Compile-time check that *SnippetRepo implements repository.SnippetRepository.
// If a method is missing or its signature drifts, the build fails here
// instead of at some distant call site.
var _ repository.SnippetRepository = (*SnippetRepo)(nil)

// SnippetRepo stores snippets as one JSON array in the record store.
//
// The mutex serializes every load-mutate-save cycle. Reads take it too:
// cheap at this scale, and it means a read never observes a save that the
// store is in the middle of replacing.
type SnippetRepo struct {
	store Storage
	mu    sync.Mutex
}

// Storage is the slice of the record store this package needs.
// Declared here (consumer side) so tests can substitute a failing store.
type Storage interface {
	Load(name string, out any) error
	Save(name string, records any) error
}

// Create appends the snippet to the collection and persists it.
//
// ID GENERATION WITH xid:
// xid produces 20-char, URL-safe, creation-time-sortable IDs — a good fit
// for opaque string primary keys without the bulk of a UUID.
func (r *SnippetRepo) Create(ctx context.Context, snippet *model.Snippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snippet.ID = xid.New().String()
	snippet.CreatedAt = time.Now()

	var all []model.Snippet
	if err := r.store.Load(snippetsCollection, &all); err != nil {
		return err
	}
	all = append(all, *snippet)
	return r.store.Save(snippetsCollection, all)
}

// GetByID retrieves a single snippet. Missing id → apperror.ErrNotFound,
// the same translation the handlers rely on for 404s.
func (r *SnippetRepo) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []model.Snippet
	if err := r.store.Load(snippetsCollection, &all); err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			s := all[i]
			return &s, nil
		}
	}
	return nil, apperror.NotFound("snippet", id)
}

// ListByOwner returns the owner's snippets in storage order — the order they
// were appended, which is creation order. Sorting is the caller's concern.
func (r *SnippetRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Snippet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []model.Snippet
	if err := r.store.Load(snippetsCollection, &all); err != nil {
		return nil, err
	}

	owned := make([]model.Snippet, 0, len(all))
	for _, s := range all {
		if s.Owner == ownerID {
			owned = append(owned, s)
		}
	}
	return owned, nil
}

// Update replaces the stored record with the given snippet, matched by ID.
func (r *SnippetRepo) Update(ctx context.Context, snippet *model.Snippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []model.Snippet
	if err := r.store.Load(snippetsCollection, &all); err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == snippet.ID {
			all[i] = *snippet
			return r.store.Save(snippetsCollection, all)
		}
	}
	return apperror.NotFound("snippet", snippet.ID)
}

// Delete physically removes the record — no soft delete.
func (r *SnippetRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []model.Snippet
	if err := r.store.Load(snippetsCollection, &all); err != nil {
		return err
	}
	for i := range all {
		if all[i].ID == id {
			all = append(all[:i], all[i+1:]...)
			return r.store.Save(snippetsCollection, all)
		}
	}
	return apperror.NotFound("snippet", id)
}
