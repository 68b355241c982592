// Package localcache keeps the last known place list on disk so the client
// can still show the map when the server is unreachable.
package localcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwise1/love_map/internal/model"
	"github.com/dgraph-io/badger/v4"
)

// Key is the single entry holding the serialized place list.
const Key = "mapPlaces"

// Cache wraps a Badger database instance.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) the cache in dir. An empty dir keeps the cache in
// memory only.
func Open(dir string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open local cache: %w", err)
	}
	logger.Debug("local cache opened", "dir", dir)
	return &Cache{db: db, logger: logger}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Save overwrites the stored list with places.
func (c *Cache) Save(places []model.Place) error {
	if places == nil {
		places = []model.Place{}
	}
	data, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("marshal places: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(Key), data)
	})
}

// Load returns the stored list. ok is false when nothing was saved yet.
func (c *Cache) Load() (places []model.Place, ok bool, err error) {
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &places)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load cached places: %w", err)
	}
	return places, true, nil
}
