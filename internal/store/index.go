package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// IndexEntryName returns the by-date entry name for a revision directory:
// <YYYY-MM-DD>.<PR_DIR>.<SEQ>.
func IndexEntryName(date time.Time, revDir string) string {
	prBase := filepath.Base(filepath.Dir(revDir))
	seq, _ := leadingSeq(filepath.Base(revDir))
	return fmt.Sprintf("%s.%s.%d", date.Format("2006-01-02"), prBase, seq)
}

// Reindex links revDir into the by-date area under a date-keyed name. An
// existing entry with the same name is replaced. The entry is a relative
// symlink and never the only record of a revision; deleting it leaves the
// primary store intact.
func (s *Store) Reindex(date time.Time, revDir string) error {
	byDate := s.ByDateDir()
	if err := os.MkdirAll(byDate, 0o755); err != nil {
		return fmt.Errorf("creating by-date directory: %w", err)
	}
	target, err := filepath.Rel(byDate, revDir)
	if err != nil {
		return fmt.Errorf("computing index target: %w", err)
	}
	entry := filepath.Join(byDate, IndexEntryName(date, revDir))
	if err := os.Remove(entry); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing index entry: %w", err)
	}
	if err := os.Symlink(target, entry); err != nil {
		return fmt.Errorf("creating index entry: %w", err)
	}
	return nil
}

// RebuildIndex recreates the entire by-date area from the primary store.
// All existing entries are removed first, which also drops stale links
// whose revision directories are gone. Entry dates come from each revision
// directory's modification time. It returns the number of entries created.
func (s *Store) RebuildIndex() (int, error) {
	byDate := s.ByDateDir()
	entries, err := os.ReadDir(byDate)
	if err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("reading by-date directory: %w", err)
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(byDate, e.Name())); err != nil {
			return 0, fmt.Errorf("clearing index entry %s: %w", e.Name(), err)
		}
	}

	prDirs, err := s.PRDirs()
	if err != nil {
		return 0, err
	}
	created := 0
	for _, prDir := range prDirs {
		revs, _, err := scanRevisions(prDir)
		if err != nil {
			return created, fmt.Errorf("%s: %w", filepath.Base(prDir), err)
		}
		for _, r := range revs {
			info, err := os.Stat(r.Dir)
			if err != nil {
				return created, fmt.Errorf("%s: %w", r.Dir, err)
			}
			if err := s.Reindex(info.ModTime(), r.Dir); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
