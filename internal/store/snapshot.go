package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names inside a revision directory. These form the on-disk
// contract with any tooling inspecting the store directly.
const (
	metaFile      = "pr.json"
	headFile      = "HEAD"
	diffFile      = "base.diff"
	checklistFile = "review-checklist.md"
)

// ErrRevisionExists is returned when a snapshot write targets a sequence
// number that already has a revision directory. Sequence numbers are
// write-once.
var ErrRevisionExists = errors.New("revision already exists")

// Artifacts is the durable payload of one revision.
type Artifacts struct {
	Meta      []byte // verbatim pr.json metadata document
	Head      string // full commit hash of the reviewed tip
	BaseDiff  string // unified diff against the PR base, may be empty
	Checklist string // generated review checklist markdown
}

// WriteSnapshot persists the artifacts for revision seq of pr and returns
// the revision directory. The four files are written into a temporary
// sibling directory that is renamed into place, so an interrupted call never
// leaves a partial snapshot visible under the final name.
func (s *Store) WriteSnapshot(pr PullRequest, seq int, a Artifacts) (string, error) {
	prDir, err := s.PRDir(pr)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(prDir, 0o755); err != nil {
		return "", fmt.Errorf("creating pr directory: %w", err)
	}

	dest := filepath.Join(prDir, RevisionDirName(seq, a.Head))
	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("pr %d revision %d: %w", pr.Number, seq, ErrRevisionExists)
	}

	tmp, err := os.MkdirTemp(prDir, ".snapshot-*")
	if err != nil {
		return "", fmt.Errorf("creating snapshot staging directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	files := []struct {
		name string
		data []byte
	}{
		{metaFile, a.Meta},
		{headFile, []byte(a.Head)},
		{diffFile, []byte(a.BaseDiff)},
		{checklistFile, []byte(a.Checklist)},
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(tmp, f.name), f.data, 0o644); err != nil {
			return "", fmt.Errorf("pr %d revision %d: writing %s: %w", pr.Number, seq, f.name, err)
		}
	}

	if err := os.Rename(tmp, dest); err != nil {
		return "", fmt.Errorf("pr %d revision %d: committing snapshot: %w", pr.Number, seq, err)
	}
	return dest, nil
}

// Snapshot reads the artifacts back from a revision directory.
func Snapshot(revDir string) (Artifacts, error) {
	var a Artifacts
	meta, err := os.ReadFile(filepath.Join(revDir, metaFile))
	if err != nil {
		return a, fmt.Errorf("reading %s: %w", metaFile, err)
	}
	head, err := os.ReadFile(filepath.Join(revDir, headFile))
	if err != nil {
		return a, fmt.Errorf("reading %s: %w", headFile, err)
	}
	diff, err := os.ReadFile(filepath.Join(revDir, diffFile))
	if err != nil {
		return a, fmt.Errorf("reading %s: %w", diffFile, err)
	}
	checklist, err := os.ReadFile(filepath.Join(revDir, checklistFile))
	if err != nil {
		return a, fmt.Errorf("reading %s: %w", checklistFile, err)
	}
	a.Meta = meta
	a.Head = string(head)
	a.BaseDiff = string(diff)
	a.Checklist = string(checklist)
	return a, nil
}

// ChecklistPath returns the path of the review checklist inside a revision
// directory.
func ChecklistPath(revDir string) string {
	return filepath.Join(revDir, checklistFile)
}
