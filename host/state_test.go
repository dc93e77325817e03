package host

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadState(t *testing.T) {
	t.Run("fresh directory", func(t *testing.T) {
		s, err := loadState(t.TempDir(), BackendLevelDB)
		require.NoError(t, err)
		require.Equal(t, &state{Version: layoutVersion, Backend: BackendLevelDB}, s)
	})
	t.Run("persisting state", func(t *testing.T) {
		dir := t.TempDir()
		s, err := loadState(dir, BackendMemory)
		require.NoError(t, err)
		require.NoError(t, saveState(dir, s))

		s2, err := loadState(dir, BackendMemory)
		require.NoError(t, err)
		require.Equal(t, s, s2)
	})
	t.Run("detect backend change", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, saveState(dir, &state{Version: layoutVersion, Backend: BackendLevelDB}))

		_, err := loadState(dir, BackendMemory)
		require.ErrorIs(t, err, ErrIncompatibleState)
	})
	t.Run("detect layout change", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, saveState(dir, &state{Version: layoutVersion + 1, Backend: BackendLevelDB}))

		_, err := loadState(dir, BackendLevelDB)
		require.ErrorIs(t, err, ErrIncompatibleState)
	})
}
