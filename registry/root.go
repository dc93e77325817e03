package registry

import (
	"bytes"
	"fmt"

	"github.com/minio/sha256-simd"
	"github.com/spacemeshos/go-scale"
	"github.com/spacemeshos/merkle-tree"

	"github.com/spacemeshos/poe/claims"
)

// StateRoot computes the root of a merkle tree built over all claims of s in
// ascending fingerprint order. Each leaf is sha256(SCALE(fingerprint) || SCALE(record)).
// The root of an empty registry is nil.
func StateRoot(s Store) ([]byte, error) {
	tree, err := merkle.NewTree()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize merkle tree: %w", err)
	}

	var (
		leaves  int
		leafErr error
	)
	err = s.Range(func(fp claims.Fingerprint, r claims.Record) bool {
		leaf, err := claimLeaf(fp, r)
		if err == nil {
			err = tree.AddLeaf(leaf)
		}
		if err != nil {
			leafErr = fmt.Errorf("adding leaf for %X: %w", []byte(fp), err)
			return false
		}
		leaves++
		return true
	})
	switch {
	case err != nil:
		return nil, err
	case leafErr != nil:
		return nil, leafErr
	case leaves == 0:
		return nil, nil
	}
	return tree.Root(), nil
}

func claimLeaf(fp claims.Fingerprint, r claims.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := scale.NewEncoder(&buf)
	if _, err := scale.EncodeByteSlice(enc, fp); err != nil {
		return nil, err
	}
	if _, err := r.EncodeScale(enc); err != nil {
		return nil, err
	}
	sum := sha256.Sum256(buf.Bytes())
	return sum[:], nil
}
