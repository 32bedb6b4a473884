package store

import "context"

// Keys of the two independently persisted blobs.
const (
	ProfileKey      = "wealthsense_user"
	TransactionsKey = "wealthsense_expenses"
)

// Persister is the local device storage the Store snapshots into.
// Implementations live in the inmemory, localfs and sqlite subpackages.
type Persister interface {
	// Get returns the blob stored under key. found is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// PutAll writes every entry. Callers never observe a partial write:
	// either all entries are replaced or the call fails and the previous
	// values stay readable.
	PutAll(ctx context.Context, entries map[string][]byte) error
}
