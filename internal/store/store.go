// Package store implements the record store: durable, whole-collection
// read/write of JSON arrays on disk.
//
// Each collection lives in its own file, <dir>/<name>.json, holding a single
// JSON array of records. The store does no schema validation — it is a
// records-in, records-out sink. Interpretation of the records belongs to the
// repositories layered on top (internal/repository/jsonfile), the same way
// the repositories sit above the raw connection in a database-backed app.
//
// ATOMIC SAVES:
// Save never writes into the live file directly. It marshals the collection,
// writes it to a temp file in the same directory, fsyncs, and renames the
// temp file over the target. Rename on the same filesystem is atomic, so a
// crash mid-save leaves either the old collection or the new one on disk —
// never a half-written file.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store reads and writes JSON collection files under a single directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: data directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Load decodes the named collection into out, which must be a pointer to a
// slice. A collection that does not exist yet is not an error: out is left
// as an empty slice, matching "store is initialized to empty on first use".
func (s *Store) Load(name string, out any) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("store: reading collection %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("store: decoding collection %s: %w", name, err)
	}
	return nil
}

// Save overwrites the named collection with records (any JSON-marshalable
// slice). The write is atomic with respect to a single caller; serializing
// concurrent callers is the repositories' job.
func (s *Store) Save(name string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding collection %s: %w", name, err)
	}

	// Temp file must be in the same directory as the target — rename is only
	// atomic within one filesystem.
	tmp, err := os.CreateTemp(s.dir, name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("store: creating temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	// On any failure below, remove the orphaned temp file.
	cleanup := func(cause error) error {
		tmp.Close()
		os.Remove(tmpName)
		return cause
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("store: writing collection %s: %w", name, err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("store: syncing collection %s: %w", name, err))
	}
	if err := tmp.Close(); err != nil {
		return cleanup(fmt.Errorf("store: closing temp file for %s: %w", name, err))
	}

	if err := os.Rename(tmpName, s.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: replacing collection %s: %w", name, err)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
