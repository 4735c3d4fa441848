package repository

import (
	"context"
)

// DefaultKeyPrefix prefixes the three collection keys.
const DefaultKeyPrefix = "tm"

// Reader reads serialized collections from a store backend.
type Reader interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written or was removed.
	Get(ctx context.Context, key string) (value string, found bool, err error)
}

// Tx is the read/write view of a store backend inside a transaction.
type Tx interface {
	Reader
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store is a durable string-keyed mapping of serialized collections.
// Update runs fn atomically: either every write made through tx is applied
// or none is. fn must only use tx, never the Store it was given by.
type Store interface {
	Tx
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// KeyLister is implemented by stores that can enumerate every key they hold.
type KeyLister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Keys names the entries holding each collection.
type Keys struct {
	Tasks      string
	Categories string
	Settings   string
}

// NewKeys derives the collection keys from prefix.
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return Keys{
		Tasks:      prefix + "_tasks",
		Categories: prefix + "_categories",
		Settings:   prefix + "_settings",
	}
}

// All returns every collection key.
func (k Keys) All() []string {
	return []string{k.Tasks, k.Categories, k.Settings}
}
