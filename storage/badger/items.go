package badger

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/storage"
)

// ItemRepository implements storage.ItemRepository for BadgerDB.
type ItemRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(backend *Backend) (*ItemRepository, error) {
	idSeq, err := backend.GetSequence(itemRecordIDSeq)
	if err != nil {
		return nil, err
	}

	return &ItemRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ItemRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ItemRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddItems adds one or more found items to storage.
func (r *ItemRepository) AddItems(ctx context.Context, items ...*core.FoundItem) ([]*core.FoundItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			// Items seeded with a content-based ID keep it; otherwise
			// generate from the sequence.
			if item.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				item.Id = core.ID(nextID)
			}

			item.InsertedAt = time.Now().UTC()
			item.UpdatedAt = item.InsertedAt
			if item.FoundAt.IsZero() {
				item.FoundAt = item.InsertedAt
			}

			if err := r.writeItem(tx, item); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// UpdateItems updates existing found items.
func (r *ItemRepository) UpdateItems(ctx context.Context, items ...*core.FoundItem) ([]*core.FoundItem, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, item := range items {
			key := makeItemKey(item.Id)

			// Read old item to detect index changes
			old, err := r.readItem(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			item.UpdatedAt = time.Now().UTC()

			value := storage.MarshalFoundItem(item)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index if the found time changed
			if !old.FoundAt.Equal(item.FoundAt) {
				if err := tx.Delete(makeItemDateKey(old.FoundAt, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeItemDateKey(item.FoundAt, item.Id), storage.MarshalID(item.Id)); err != nil {
					return err
				}
			}

			// Update category index if the category changed
			if old.Category != item.Category {
				if old.Category != "" {
					if err := tx.Delete(makeItemCategoryKey(old.Category, old.Id)); err != nil {
						return err
					}
				}
				if item.Category != "" {
					if err := tx.Set(makeItemCategoryKey(item.Category, item.Id), storage.MarshalID(item.Id)); err != nil {
						return err
					}
				}
			}
		}
		return tx.Commit()
	}, true)

	return items, err
}

// DeleteItems removes found items by their IDs.
func (r *ItemRepository) DeleteItems(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeItemKey(id)

			// Read item to get metadata for index cleanup
			item, err := r.readItem(tx, key)
			if err != nil {
				return err
			}
			if item == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeItemDateKey(item.FoundAt, item.Id)); err != nil {
				return err
			}
			if item.Category != "" {
				if err := tx.Delete(makeItemCategoryKey(item.Category, item.Id)); err != nil {
					return err
				}
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetItem retrieves a single found item by ID.
func (r *ItemRepository) GetItem(ctx context.Context, id core.ID) (*core.FoundItem, error) {
	var result *core.FoundItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeItemKey(id)
		var err error
		result, err = r.readItem(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetItems retrieves multiple found items by their IDs.
func (r *ItemRepository) GetItems(ctx context.Context, ids ...core.ID) ([]*core.FoundItem, error) {
	var result []*core.FoundItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeItemKey(id)
			item, err := r.readItem(tx, key)
			if err != nil {
				return err
			}
			if item != nil {
				result = append(result, item)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListItems retrieves every stored found item.
func (r *ItemRepository) ListItems(ctx context.Context) ([]*core.FoundItem, error) {
	var results []*core.FoundItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itemRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			key := item.Key()

			// Skip index keys and the sequence key
			if bytes.Equal(key, []byte(itemRecordIDSeq)) ||
				bytes.HasPrefix(key, []byte(itemRecordDatePrefix)) ||
				bytes.HasPrefix(key, []byte(itemRecordCategoryPrefix)) {
				continue
			}

			var record *core.FoundItem
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalFoundItem(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// ListItemsByCategory retrieves items in the given category via the category index.
func (r *ItemRepository) ListItemsByCategory(ctx context.Context, category string) ([]*core.FoundItem, error) {
	var results []*core.FoundItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialItemCategoryKey(category)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) || !bytes.HasPrefix(key, startKey) {
				break
			}

			var itemID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				itemID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			item, err := r.readItem(tx, makeItemKey(itemID))
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, item)
			}
		}
		return nil
	}, false)
	return results, err
}

// ListItemsByDateRange retrieves items found within a time range.
func (r *ItemRepository) ListItemsByDateRange(ctx context.Context, start, end time.Time) ([]*core.FoundItem, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.FoundItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialItemDateKey(start)
		endKey := makePartialItemDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			var itemID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				itemID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			item, err := r.readItem(tx, makeItemKey(itemID))
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, item)
			}
		}
		return nil
	}, false)

	return results, err
}

// ListRecentItems retrieves the N most recently found items, ordered by FoundAt descending.
func (r *ItemRepository) ListRecentItems(ctx context.Context, limit int) ([]*core.FoundItem, error) {
	var results []*core.FoundItem
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent items first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek to the last possible date-index key
		startKey := makePartialItemDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(itemRecordDatePrefix + ":")

		count := 0
		for iter.Seek(startKey); iter.Valid() && count < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || !bytes.HasPrefix(key, prefix) {
				break
			}

			var itemID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				itemID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			item, err := r.readItem(tx, makeItemKey(itemID))
			if err != nil {
				return err
			}
			if item != nil {
				results = append(results, item)
				count++
			}
		}
		return nil
	}, false)

	return results, err
}

// Helper methods

// writeItem stores the item record and its index entries.
func (r *ItemRepository) writeItem(tx *badger.Txn, item *core.FoundItem) error {
	key := makeItemKey(item.Id)
	value := storage.MarshalFoundItem(item)
	if err := tx.Set(key, value); err != nil {
		return err
	}

	if err := tx.Set(makeItemDateKey(item.FoundAt, item.Id), storage.MarshalID(item.Id)); err != nil {
		return err
	}

	if item.Category != "" {
		if err := tx.Set(makeItemCategoryKey(item.Category, item.Id), storage.MarshalID(item.Id)); err != nil {
			return err
		}
	}
	return nil
}

// readItem reads a found item from the transaction.
func (r *ItemRepository) readItem(tx *badger.Txn, key []byte) (*core.FoundItem, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.FoundItem
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalFoundItem(val)
		return unmarshalErr
	})
	return record, err
}
