package storage

import (
	"context"
	"time"

	"github.com/poiesic/refind/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ItemRepository provides operations for managing found-item records.
type ItemRepository interface {
	Repository

	// AddItems adds one or more found items to storage.
	// For items with ID=0, generates new IDs from sequence.
	// Sets InsertedAt and UpdatedAt timestamps.
	// Returns the items with generated IDs and timestamps populated.
	AddItems(ctx context.Context, items ...*core.FoundItem) ([]*core.FoundItem, error)

	// UpdateItems updates existing found items.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any item doesn't exist.
	UpdateItems(ctx context.Context, items ...*core.FoundItem) ([]*core.FoundItem, error)

	// DeleteItems removes found items by their IDs.
	// Also removes associated indices.
	// Returns ErrNotFound if any item doesn't exist.
	DeleteItems(ctx context.Context, ids ...core.ID) error

	// GetItem retrieves a single found item by ID.
	// Returns ErrNotFound if the item doesn't exist.
	GetItem(ctx context.Context, id core.ID) (*core.FoundItem, error)

	// GetItems retrieves multiple found items by their IDs.
	// Returns only the items that exist (no error for missing items).
	GetItems(ctx context.Context, ids ...core.ID) ([]*core.FoundItem, error)

	// ListItems retrieves every stored found item.
	ListItems(ctx context.Context) ([]*core.FoundItem, error)

	// ListItemsByCategory retrieves items in the given category,
	// using the category index.
	ListItemsByCategory(ctx context.Context, category string) ([]*core.FoundItem, error)

	// ListItemsByDateRange retrieves items found within a time range.
	// Returns items where start <= FoundAt < end, ordered by FoundAt.
	ListItemsByDateRange(ctx context.Context, start, end time.Time) ([]*core.FoundItem, error)

	// ListRecentItems retrieves the N most recently found items,
	// ordered by FoundAt descending.
	ListRecentItems(ctx context.Context, limit int) ([]*core.FoundItem, error)
}
