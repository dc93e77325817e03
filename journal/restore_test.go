package journal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/poe/claims"
	"github.com/spacemeshos/poe/registry"
)

func TestRestore(t *testing.T) {
	t.Parallel()
	alice, bob := claims.Identity("alice"), claims.Identity("bob")
	doc1, doc2 := claims.Fingerprint("doc1"), claims.Fingerprint("doc2")

	reg := registry.NewMemory()
	err := Restore(reg, []Entry{
		{Seq: 1, Event: &claims.ClaimCreated{Owner: alice, Fingerprint: doc1}},
		{Seq: 2, Event: &claims.ClaimCreated{Owner: alice, Fingerprint: doc2}},
		{Seq: 4, Event: &claims.ClaimTransfer{Fingerprint: doc1, From: alice, To: bob}},
		{Seq: 5, Event: &claims.ClaimRemoved{Owner: alice, Fingerprint: doc2}},
	})
	require.NoError(t, err)

	r, err := reg.Get(doc1)
	require.NoError(t, err)
	require.Equal(t, claims.Record{Owner: bob, RegisteredAt: 4}, r)

	_, err = reg.Get(doc2)
	require.ErrorIs(t, err, claims.ErrNotFound)
	require.Equal(t, 1, reg.Len())
}

func TestRestore_TransferOfMissingClaim(t *testing.T) {
	t.Parallel()
	err := Restore(registry.NewMemory(), []Entry{
		{Seq: 7, Event: &claims.ClaimTransfer{Fingerprint: claims.Fingerprint("doc1"), To: claims.Identity("bob")}},
	})
	require.ErrorIs(t, err, claims.ErrNotFound)
	require.ErrorContains(t, err, "restoring event 7")
}
