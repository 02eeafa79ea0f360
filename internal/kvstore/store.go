package kvstore

import "context"

// CollectionStore persists whole collections as opaque JSON arrays
// under string keys. There are no partial updates and no transactions:
// callers load a collection, mutate it in memory and save it back.
// Load returns (nil, nil) for a key that has never been written.
type CollectionStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
