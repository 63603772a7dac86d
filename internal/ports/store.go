package ports

import "errors"

// ErrKeyNotFound is returned by LocalStore.Get for a missing key
var ErrKeyNotFound = errors.New("key not found")

// LocalStore is the client-side key/value store. Values are whole blobs:
// every Set replaces the previous value atomically.
type LocalStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
