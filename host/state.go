package host

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spacemeshos/poe/util"
)

const (
	stateFilename = "state.bin"
	layoutVersion = 1
)

var ErrIncompatibleState = errors.New("data directory was created with a different setup")

// state describes how the data directory was initialized.
type state struct {
	Version uint32
	Backend string
}

func saveState(datadir string, s *state) error {
	return util.Persist(filepath.Join(datadir, stateFilename), s)
}

// loadState loads the persisted state or creates a new one for backend.
// Reusing a directory with another backend or layout version is refused, the
// journal would no longer match the registry.
func loadState(datadir, backend string) (*state, error) {
	s := &state{}
	err := util.Load(filepath.Join(datadir, stateFilename), s)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &state{Version: layoutVersion, Backend: backend}, nil
	case err != nil:
		return nil, err
	}

	if s.Version != layoutVersion {
		return nil, fmt.Errorf("%w: layout version %d, expected %d", ErrIncompatibleState, s.Version, layoutVersion)
	}
	if s.Backend != backend {
		return nil, fmt.Errorf("%w: backend %q, configured %q", ErrIncompatibleState, s.Backend, backend)
	}
	return s, nil
}
