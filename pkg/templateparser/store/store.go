// Package store persists named templates.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Store persists template bodies by name.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores body under name, replacing any previous body.
	// The first save of a name assigns an ID that later saves keep;
	// every save bumps the revision.
	Save(name, body string) (Info, error)

	// Load returns the body stored under name.
	// Returns ErrNotFound if the name was never saved or was deleted.
	Load(name string) (string, error)

	// List returns metadata for every stored template, ordered by name.
	// Returns an empty slice (not error) when the store is empty.
	List() ([]Info, error)

	// Delete removes a template. Returns nil if it does not exist.
	Delete(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info describes a stored template without its body.
type Info struct {
	ID        uuid.UUID
	Name      string
	Revision  int
	UpdatedAt time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a template doesn't exist.
	ErrNotFound = errors.New("template not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("template store closed")

	// ErrEmptyName indicates Save was called without a name.
	ErrEmptyName = errors.New("template name cannot be empty")
)
