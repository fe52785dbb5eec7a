package nonceauth

import "context"

// CounterStore is the increment capability the manager needs for nonce
// advancement and login-ID allocation. Increment must be atomic under
// concurrent callers: a lost increment on a login nonce would leave two
// tokens verifying under the same key.
//
// Keys are logical names ("gn", "un:<uid>", ...); the implementation owns
// physical namespacing.
type CounterStore interface {
	// Increment atomically increments the counter named by key, creating it
	// at 0 first if absent, and returns the new value.
	Increment(ctx context.Context, key string) (int64, error)
}

// NonceRegistry is the read/write capability the manager uses to read counter
// values on the verification path and to remove or reset them. It is kept
// separate from [CounterStore] so a backend offering only atomic counters can
// still serve the counter role.
//
// Reads are not required to be linearized with concurrent increments; see the
// package documentation for the accepted consistency trade-off.
type NonceRegistry interface {
	// Get returns the current value of the counter named by key. An absent
	// counter is not an error: it reports (0, false, nil), the
	// "never incremented" state.
	Get(ctx context.Context, key string) (int64, bool, error)
	// Put overwrites the counter named by key.
	Put(ctx context.Context, key string, value int64) error
	// Remove deletes the counter named by key. Removing an absent counter
	// succeeds.
	Remove(ctx context.Context, key string) error
	// Clear wipes every counter. Full-system reset only, not part of the
	// revocation algorithm.
	Clear(ctx context.Context) error
}
