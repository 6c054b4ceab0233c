// Package store provides namespaced key-value persistence for the payment
// engine. Keys are structured tuples whose namespace tag always leads, so
// records from different namespaces can never collide. Two backends are
// provided: an in-memory store for tests and demos, and a SQLite store for
// durable single-node deployments.
package store

import (
	"context"
	"net/url"
	"strings"
)

// Key is a structured storage key. The namespace tag leads, followed by zero
// or more path parts (event ids, names, wallet addresses).
type Key struct {
	Namespace string
	Parts     []string
}

// NewKey builds a key from a namespace tag and path parts.
func NewKey(namespace string, parts ...string) Key {
	return Key{Namespace: namespace, Parts: parts}
}

// Path renders the parts as a single collision-free string. Each part is
// path-escaped so a part containing "/" cannot alias a longer key.
func (k Key) Path() string {
	if len(k.Parts) == 0 {
		return ""
	}
	escaped := make([]string, len(k.Parts))
	for i, p := range k.Parts {
		escaped[i] = url.PathEscape(p)
	}
	return strings.Join(escaped, "/")
}

// String renders the full key, namespace first.
func (k Key) String() string {
	if len(k.Parts) == 0 {
		return k.Namespace
	}
	return k.Namespace + "/" + k.Path()
}

// Store is synchronous namespaced key-value storage. Values are opaque
// bytes; callers own the encoding. Implementations must make Set durable
// before returning and must never return stale reads to a later call.
type Store interface {
	// Has reports whether a key exists.
	Has(ctx context.Context, key Key) (bool, error)

	// Get returns the value for a key. The boolean reports presence; a
	// missing key is not an error.
	Get(ctx context.Context, key Key) ([]byte, bool, error)

	// Set writes a value, overwriting any previous value.
	Set(ctx context.Context, key Key, value []byte) error

	// Delete removes a key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key Key) error

	// Close releases backend resources.
	Close() error
}
