package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string
	Version uint32
}

func TestPersistAndLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.bin")
	require.NoError(t, Persist(path, &sample{Name: "leveldb", Version: 1}))

	var loaded sample
	require.NoError(t, Load(path, &loaded))
	require.Equal(t, sample{Name: "leveldb", Version: 1}, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	var loaded sample
	err := Load(filepath.Join(t.TempDir(), "missing"), &loaded)
	require.ErrorIs(t, err, os.ErrNotExist)
}
