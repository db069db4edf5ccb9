// Package kvstore provides string-keyed maps whose read-modify-write cycles
// are atomic. The token store and the file rate limiter are built on it.
package kvstore

// Store holds values of type V under opaque string keys.
type Store[V any] interface {
	// Update runs fn against the current contents under an exclusive lock.
	// When fn reports changed, the new contents are persisted before the
	// lock is released. An error from fn discards the changes.
	Update(fn func(data map[string]V) (changed bool, err error)) error
	// View runs fn against a consistent snapshot. fn must not retain or
	// mutate data.
	View(fn func(data map[string]V) error) error
}
