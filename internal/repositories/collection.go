package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/kvstore"
)

/*
collection wraps one store key holding a JSON array of T. load returns
a decoded copy (empty slice if the key was never written) and save
re-encodes and overwrites the whole key.

Every mutation is load, change in memory, save. The store has no
transactions, so repositories never interleave partial writes.
*/
type collection[T any] struct {
	store kvstore.CollectionStore
	key   string
}

func newCollection[T any](store kvstore.CollectionStore, key string) collection[T] {
	return collection[T]{store: store, key: key}
}

func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.store.Load(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	if len(raw) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	return items, nil
}

func (c *collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Save(ctx, c.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}
	return nil
}
