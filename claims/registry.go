package claims

//go:generate mockgen -package mocks -destination mocks/registry.go . Registry

// Registry is the keyed store of ownership records.
//
// Implementations must make Update atomic with respect to its own existence check:
// no observer may see the key disappear and reappear while it runs.
// A non-nil error other than ErrNotFound signals a storage failure.
type Registry interface {
	Contains(fp Fingerprint) (bool, error)
	// Get returns ErrNotFound if fp is not claimed.
	Get(fp Fingerprint) (Record, error)
	// Insert stores r under fp. The caller must have checked that fp is absent.
	Insert(fp Fingerprint, r Record) error
	// Update replaces the record of fp if it exists and returns ErrNotFound otherwise.
	Update(fp Fingerprint, r Record) error
	// Remove deletes fp. Removing an absent key is not an error.
	Remove(fp Fingerprint) error
}
