package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/snippetvault/internal/auth"
	"github.com/sakif/snippetvault/internal/service"
)

// SnippetHandler exposes snippet CRUD and search. Every route here sits
// behind auth.RequireAuth, so the caller identity is always present in the
// request context — the handler's job is parsing and serialization, the
// ownership rules live in the service.
type SnippetHandler struct {
	svc    *service.SnippetService
	logger *slog.Logger
}

func NewSnippetHandler(svc *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{svc: svc, logger: logger}
}

type createSnippetRequest struct {
	Title       string   `json:"title" validate:"required"`
	Language    string   `json:"language"`
	Description string   `json:"description"`
	Code        string   `json:"code" validate:"required"`
	Tags        []string `json:"tags"`
}

// updateSnippetRequest is a partial update. Pointer fields distinguish
// "field omitted" (nil — keep the stored value) from "field present with a
// value" (replace, even with an empty string or an empty tags array). The
// service enforces which fields may actually be cleared.
type updateSnippetRequest struct {
	Title       *string   `json:"title"`
	Language    *string   `json:"language"`
	Description *string   `json:"description"`
	Code        *string   `json:"code"`
	Tags        *[]string `json:"tags"`
}

// HandleCreate saves a new snippet owned by the caller.
//
// HTTP: POST /api/snippets
// Body: {"title": "...", "language": "...", "code": "...", "tags": [...]}
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't trust route wiring.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated", Message: "a valid session is required"})
		return
	}

	var req createSnippetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	snippet, err := h.svc.Create(r.Context(), callerID, service.CreateInput{
		Title:       req.Title,
		Language:    req.Language,
		Description: req.Description,
		Code:        req.Code,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleList returns all of the caller's snippets, newest first.
//
// HTTP: GET /api/snippets
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated", Message: "a valid session is required"})
		return
	}

	snippets, err := h.svc.ListMine(r.Context(), callerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleSearch filters the caller's snippets by the query parameters.
//
// HTTP: GET /api/snippets/search?q=...&language=...&tags=a,b
//
// All parameters are optional; an empty query returns the whole owned set
// (in storage order — search never sorts).
func (h *SnippetHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated", Message: "a valid session is required"})
		return
	}

	q := r.URL.Query()
	snippets, err := h.svc.Search(r.Context(), callerID, service.SearchQuery{
		Text:     q.Get("q"),
		Language: q.Get("language"),
		Tags:     q.Get("tags"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleUpdate applies a partial update to one of the caller's snippets.
//
// HTTP: PUT /api/snippets/{id}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated", Message: "a valid session is required"})
		return
	}

	id := r.PathValue("id")

	var req updateSnippetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	snippet, err := h.svc.Update(r.Context(), callerID, id, service.UpdatePatch{
		Title:       req.Title,
		Language:    req.Language,
		Description: req.Description,
		Code:        req.Code,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete removes one of the caller's snippets.
//
// HTTP: DELETE /api/snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated", Message: "a valid session is required"})
		return
	}

	id := r.PathValue("id")

	if err := h.svc.Delete(r.Context(), callerID, id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK)
}
