package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/poe/claims"
	"github.com/spacemeshos/poe/registry"
)

func TestStateRoot(t *testing.T) {
	t.Parallel()
	t.Run("empty registry", func(t *testing.T) {
		t.Parallel()
		root, err := registry.StateRoot(registry.NewMemory())
		require.NoError(t, err)
		require.Nil(t, root)
	})
	t.Run("same content gives same root on every backend", func(t *testing.T) {
		t.Parallel()
		mem := registry.NewMemory()
		db := newLevelDB(t)
		for _, s := range []registry.Store{mem, db} {
			// insertion order differs, iteration order doesn't
			require.NoError(t, s.Insert(claims.Fingerprint("b"), claims.Record{Owner: claims.Identity("bob"), RegisteredAt: 2}))
			require.NoError(t, s.Insert(claims.Fingerprint("a"), claims.Record{Owner: claims.Identity("alice"), RegisteredAt: 1}))
		}
		memRoot, err := registry.StateRoot(mem)
		require.NoError(t, err)
		require.Len(t, memRoot, 32)
		dbRoot, err := registry.StateRoot(db)
		require.NoError(t, err)
		require.Equal(t, memRoot, dbRoot)
	})
	t.Run("root changes with ownership", func(t *testing.T) {
		t.Parallel()
		s := registry.NewMemory()
		fp := claims.Fingerprint("doc1")
		require.NoError(t, s.Insert(fp, claims.Record{Owner: claims.Identity("alice"), RegisteredAt: 1}))
		before, err := registry.StateRoot(s)
		require.NoError(t, err)

		require.NoError(t, s.Update(fp, claims.Record{Owner: claims.Identity("bob"), RegisteredAt: 1}))
		after, err := registry.StateRoot(s)
		require.NoError(t, err)
		require.NotEqual(t, before, after)
	})
}
