// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces ownership, orchestrates
//	Repository (data layer)  → reads/writes the flat-file collections
//
// The service receives repository INTERFACES, not concrete types. Handlers
// never touch storage; services never touch HTTP. Tests inject in-memory
// mocks in place of the flat-file repositories.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/sakif/snippetvault/internal/apperror"
	"github.com/sakif/snippetvault/internal/model"
	"github.com/sakif/snippetvault/internal/repository"
)

// Validation constants. Named (not magic numbers) so they're easy to find,
// change, and reference in error messages.
const (
	MaxTitleLength = 100
	MaxTags        = 5
)

// SnippetService handles business logic for snippets: validation, tag
// normalization, and the ownership checks that keep one user's snippets
// invisible and immutable to every other user.
type SnippetService struct {
	snippets repository.SnippetRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewSnippetService creates a SnippetService. The user repository is needed
// only to confirm at create time that the caller id belongs to a real user.
func NewSnippetService(snippets repository.SnippetRepository, users repository.UserRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		snippets: snippets,
		users:    users,
		logger:   logger,
	}
}

// CreateInput carries the caller-supplied fields for a new snippet.
type CreateInput struct {
	Title       string
	Language    string
	Description string
	Code        string
	Tags        []string
}

// UpdatePatch is a partial update with explicit optional fields.
//
// ABSENT vs EMPTY:
// A nil pointer means "field not supplied — leave it alone". A non-nil
// pointer to an empty string means "set it to empty", which is legal for
// Description and Language but fails validation for Title and Code. Tags
// follow the same rule at the slice level: nil leaves them, a non-nil slice
// (even empty) replaces them wholesale. Without pointers these two cases
// would collapse into one and clearing a field would be inexpressible.
type UpdatePatch struct {
	Title       *string
	Language    *string
	Description *string
	Code        *string
	Tags        *[]string
}

// SearchQuery holds the optional search filters. Zero values impose no
// filtering; Language additionally treats the sentinel "all" as no filter.
type SearchQuery struct {
	Text     string // case-insensitive substring over title, description, code
	Language string // case-insensitive exact match; "" or "all" disables
	Tags     string // comma-separated list; snippet must carry every tag
}

// Create validates and saves a new snippet owned by callerID.
func (s *SnippetService) Create(ctx context.Context, callerID string, input CreateInput) (*model.Snippet, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if input.Code == "" {
		return nil, apperror.ValidationFailed("code", "code is required")
	}

	tags := normalizeTags(input.Tags)
	if len(tags) > MaxTags {
		return nil, apperror.ValidationFailed("tags",
			fmt.Sprintf("at most %d tags are allowed", MaxTags))
	}

	// The session middleware guarantees callerID came from a valid session,
	// but the session store and the user collection have separate lifetimes.
	// Confirm the owner actually exists before writing the reference.
	if _, err := s.users.GetByID(ctx, callerID); err != nil {
		return nil, apperror.Forbidden("caller does not resolve to a known user")
	}

	snippet := &model.Snippet{
		Owner:       callerID,
		Title:       title,
		Language:    input.Language,
		Description: input.Description,
		Code:        input.Code,
		Tags:        tags,
	}

	// The repository fills in ID and CreatedAt.
	if err := s.snippets.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("owner", callerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("owner", snippet.Owner),
	)

	return snippet, nil
}

// ListMine returns all snippets owned by callerID, most recent first.
// No pagination — the whole owned set comes back on every call.
func (s *SnippetService) ListMine(ctx context.Context, callerID string) ([]model.Snippet, error) {
	owned, err := s.snippets.ListByOwner(ctx, callerID)
	if err != nil {
		s.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing snippets: %w", err)
	}

	// Stable sort: snippets with identical timestamps keep storage order,
	// so repeated calls return the same sequence.
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	return owned, nil
}

// Search filters the caller's owned snippets. The result is always a subset
// of ListMine — a query can never reach across owners. Unlike ListMine the
// result keeps the owned set's storage order; search does not sort.
func (s *SnippetService) Search(ctx context.Context, callerID string, query SearchQuery) ([]model.Snippet, error) {
	owned, err := s.snippets.ListByOwner(ctx, callerID)
	if err != nil {
		s.logger.Error("failed to search snippets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("searching snippets: %w", err)
	}

	text := strings.ToLower(strings.TrimSpace(query.Text))
	language := strings.TrimSpace(query.Language)
	wantTags := splitTags(query.Tags)

	matched := make([]model.Snippet, 0, len(owned))
	for _, snip := range owned {
		if text != "" && !matchesText(&snip, text) {
			continue
		}
		if language != "" && !strings.EqualFold(language, "all") &&
			!strings.EqualFold(snip.Language, language) {
			continue
		}
		if !hasAllTags(&snip, wantTags) {
			continue
		}
		matched = append(matched, snip)
	}
	return matched, nil
}

// Update applies a partial update to the snippet with the given id.
// Fails with ErrNotFound if no such snippet exists and ErrForbidden if the
// caller is not its owner — in that order, matching the HTTP 404/403 split.
func (s *SnippetService) Update(ctx context.Context, callerID, id string, patch UpdatePatch) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if snippet.Owner != callerID {
		return nil, apperror.Forbidden("snippet belongs to another user")
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "title must not be empty")
		}
		if len(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
		}
		snippet.Title = title
	}
	if patch.Code != nil {
		if *patch.Code == "" {
			return nil, apperror.ValidationFailed("code", "code must not be empty")
		}
		snippet.Code = *patch.Code
	}
	// Language and description may be cleared to empty.
	if patch.Language != nil {
		snippet.Language = *patch.Language
	}
	if patch.Description != nil {
		snippet.Description = *patch.Description
	}
	// A supplied tags array replaces the stored set wholesale — including an
	// empty array, which clears all tags.
	if patch.Tags != nil {
		tags := normalizeTags(*patch.Tags)
		if len(tags) > MaxTags {
			return nil, apperror.ValidationFailed("tags",
				fmt.Sprintf("at most %d tags are allowed", MaxTags))
		}
		snippet.Tags = tags
	}

	if err := s.snippets.Update(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated", slog.String("id", snippet.ID))
	return snippet, nil
}

// Delete physically removes the snippet after the same NotFound/Forbidden
// checks as Update. A second delete of the same id reports NotFound.
func (s *SnippetService) Delete(ctx context.Context, callerID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if snippet.Owner != callerID {
		return apperror.Forbidden("snippet belongs to another user")
	}

	if err := s.snippets.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}

// normalizeTags trims, lowercases, and dedups tags, keeping first-seen
// order. Tags that are empty after trimming are dropped.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// splitTags parses the comma-separated tag filter into normalized tags.
func splitTags(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	return normalizeTags(strings.Split(list, ","))
}

func matchesText(s *model.Snippet, text string) bool {
	return strings.Contains(strings.ToLower(s.Title), text) ||
		strings.Contains(strings.ToLower(s.Description), text) ||
		strings.Contains(strings.ToLower(s.Code), text)
}

func hasAllTags(s *model.Snippet, tags []string) bool {
	for _, t := range tags {
		if !s.HasTag(t) {
			return false
		}
	}
	return true
}
