package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/poe/claims"
	"github.com/spacemeshos/poe/registry"
)

func TestCached_InvalidSize(t *testing.T) {
	_, err := registry.NewCached(registry.NewMemory(), 0)
	require.Error(t, err)
}

func TestCached_WritesThrough(t *testing.T) {
	t.Parallel()
	inner := registry.NewMemory()
	c, err := registry.NewCached(inner, 2)
	require.NoError(t, err)

	fp := claims.Fingerprint("doc1")
	require.NoError(t, c.Insert(fp, claims.Record{Owner: claims.Identity("alice"), RegisteredAt: 1}))
	r, err := inner.Get(fp)
	require.NoError(t, err)
	require.Equal(t, claims.Identity("alice"), r.Owner)

	require.NoError(t, c.Update(fp, claims.Record{Owner: claims.Identity("bob"), RegisteredAt: 2}))
	r, err = inner.Get(fp)
	require.NoError(t, err)
	require.Equal(t, claims.Identity("bob"), r.Owner)

	require.NoError(t, c.Remove(fp))
	require.Zero(t, inner.Len())
	ok, err := c.Contains(fp)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCached_EvictedEntriesAreReadFromStore(t *testing.T) {
	t.Parallel()
	inner := registry.NewMemory()
	c, err := registry.NewCached(inner, 1)
	require.NoError(t, err)

	require.NoError(t, c.Insert(claims.Fingerprint("a"), claims.Record{Owner: claims.Identity("alice"), RegisteredAt: 1}))
	require.NoError(t, c.Insert(claims.Fingerprint("b"), claims.Record{Owner: claims.Identity("bob"), RegisteredAt: 2}))

	r, err := c.Get(claims.Fingerprint("a"))
	require.NoError(t, err)
	require.Equal(t, claims.Identity("alice"), r.Owner)
}
