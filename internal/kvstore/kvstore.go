// Package kvstore provides the string key-value persistence collaborator used
// for durable session state. Implementations are interchangeable; callers
// that treat persistence as best-effort are expected to swallow errors.
package kvstore

// Store is a synchronous string key-value store.
type Store interface {
	// GetItem returns the stored value for key. ok is false when absent.
	GetItem(key string) (value string, ok bool, err error)
	// SetItem stores value under key, replacing any existing entry.
	SetItem(key, value string) error
	// RemoveItem deletes the entry for key. Removing an absent key is not an error.
	RemoveItem(key string) error
}
