// Package registry provides storage backends for the claim registry.
package registry

import (
	"github.com/spacemeshos/poe/claims"
)

// Store is a claims.Registry that can be iterated and closed.
type Store interface {
	claims.Registry
	// Range calls fn for every claim in ascending fingerprint order
	// until fn returns false.
	Range(fn func(fp claims.Fingerprint, r claims.Record) bool) error
	Close() error
}
