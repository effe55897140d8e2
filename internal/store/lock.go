package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFile = ".lock"

// Lock takes an exclusive advisory lock on the storage root and returns a
// release function. Two concurrent pulls of the same PR would otherwise race
// on the sequencer's read-then-write pattern; callers hold the lock across
// the whole sequence-allocate, write, tag, index span.
func (s *Store) Lock() (release func() error, err error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	fl := flock.New(filepath.Join(s.root, lockFile))
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("locking storage root: %w", err)
	}
	return fl.Unlock, nil
}
