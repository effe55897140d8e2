package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const byDateDirName = "by-date"

// PullRequest identifies a pull request as observed from the hosting service.
type PullRequest struct {
	Number int
	Author string
	Title  string
}

// DirName returns the directory name derived from the PR's current title.
// Callers should prefer [Store.PRDir], which pins the name chosen at first
// observation even if the title later changes upstream.
func (p PullRequest) DirName() string {
	return fmt.Sprintf("%d.%s.%s", p.Number, p.Author, Slugify(p.Title))
}

// Store is a revision ledger rooted at a single local directory.
type Store struct {
	root string
}

// New returns a Store rooted at dir. No filesystem access occurs until the
// store is used.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the storage root directory.
func (s *Store) Root() string { return s.root }

// ByDateDir returns the directory holding the chronological index.
func (s *Store) ByDateDir() string { return filepath.Join(s.root, byDateDirName) }

// Init creates the storage root and the by-date area if missing.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("creating storage root: %w", err)
	}
	if err := os.MkdirAll(s.ByDateDir(), 0o755); err != nil {
		return fmt.Errorf("creating by-date directory: %w", err)
	}
	return nil
}

// PRDir returns the on-disk directory for pr. If a directory for the PR
// number already exists it is reused, so a retitled PR keeps its whole
// history in one place. The name is derived from the current title only for
// PRs that have never been pulled.
func (s *Store) PRDir(pr PullRequest) (string, error) {
	existing, err := s.findPRDir(pr.Number)
	if err != nil {
		return "", err
	}
	if existing != "" {
		return existing, nil
	}
	return filepath.Join(s.root, pr.DirName()), nil
}

func (s *Store) findPRDir(number int) (string, error) {
	prefix := strconv.Itoa(number) + "."
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading storage root: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			return filepath.Join(s.root, e.Name()), nil
		}
	}
	return "", nil
}

// PRDirs lists the pull-request directories under the storage root, sorted
// by name. The by-date area and dotfiles are excluded.
func (s *Store) PRDirs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading storage root: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == byDateDirName || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, ok := leadingSeq(e.Name()); !ok {
			continue
		}
		dirs = append(dirs, filepath.Join(s.root, e.Name()))
	}
	sort.Strings(dirs)
	return dirs, nil
}

// RevisionDirName returns the directory name for revision seq of a branch
// whose tip is head.
func RevisionDirName(seq int, head string) string {
	return fmt.Sprintf("%d.%s", seq, ShortSHA(head))
}

// ShortSHA returns the 7-character commit abbreviation used in revision
// directory names.
func ShortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// leadingSeq parses the integer prefix of a directory name like
// "2.def4567" or "100.alice.fix_off_by_one".
func leadingSeq(name string) (int, bool) {
	head, _, ok := strings.Cut(name, ".")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(head)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
