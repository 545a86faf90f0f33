// Package ports defines the interfaces (driven and driving ports)
// for the streak application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/xvierd/streak/internal/domain"
)

// ErrNotFound is returned by a BlobStore when a key has never been written.
var ErrNotFound = errors.New("not found")

// BlobStore is a key-value store for opaque documents such as the snapshot.
// This is a driven port (implemented by adapters).
type BlobStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
}

// CompletionRepository defines the interface for the completion history log.
// This is a driven port (implemented by adapters).
type CompletionRepository interface {
	// Save appends a completion. Saving the same ID twice is not an error.
	Save(ctx context.Context, rec *domain.CompletionRecord) error

	// FindRecent returns up to limit completions, newest first.
	FindRecent(ctx context.Context, limit int) ([]*domain.CompletionRecord, error)

	// FindSince returns completions at or after since, oldest first.
	FindSince(ctx context.Context, since time.Time) ([]*domain.CompletionRecord, error)

	// Count returns the number of stored completions.
	Count(ctx context.Context) (int, error)

	// DeleteAll removes every completion.
	DeleteAll(ctx context.Context) error
}

// Storage is the combined persistence interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Blobs provides access to the key-value store.
	Blobs() BlobStore

	// Completions provides access to the history log.
	Completions() CompletionRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
