// Package jsonfile implements the repository interfaces on top of the
// flat-file record store (internal/store).
//
// STORAGE MODEL:
// Two independent collections, one JSON array each:
//
//	<dir>/users.json
//	<dir>/snippets.json
//
// Every operation loads the whole collection, works on it in memory, and —
// for mutations — writes the whole collection back.
//
// SINGLE-WRITER LOCKING:
// Load-mutate-save over a shared file is a classic lost-update hazard: two
// concurrent writers both load, both save, and the later save silently
// discards the earlier one. Each repository therefore serializes its
// operations through one mutex, so within this process a mutation always
// sees the previous mutation's result. There is no cross-process guarantee;
// the data directory belongs to one server instance.
package jsonfile

import (
	"github.com/sakif/snippetvault/internal/store"
)

const (
	usersCollection    = "users"
	snippetsCollection = "snippets"
)

// DB bundles the two flat-file repositories over one record store.
//
// WHY WRAP THE STORE IN A STRUCT?
// Same reasons the sqlite-backed variant wraps *sql.DB: we attach the
// repository methods to it, it implements the repository interfaces, and
// the composition root controls its lifecycle.
type DB struct {
	Users    *UserRepo
	Snippets *SnippetRepo
}

// New creates the repositories over a record store rooted at dir.
func New(dir string) (*DB, error) {
	st, err := store.New(dir)
	if err != nil {
		return nil, err
	}
	return &DB{
		Users:    &UserRepo{store: st},
		Snippets: &SnippetRepo{store: st},
	}, nil
}
