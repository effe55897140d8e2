package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Revision describes one recorded revision of a pull request.
type Revision struct {
	Seq  int
	Head string
	Dir  string
}

// NextRevision is the sequencer's answer for a pull request: the sequence
// number the next snapshot should use, the HEAD recorded by the latest
// complete revision (empty if none), and the path of a trailing partial
// snapshot that should be overwritten at the same sequence number.
type NextRevision struct {
	Seq        int
	PriorHead  string
	Incomplete string
}

// NextRevision inspects the revision directories of pr and reports what the
// next snapshot should look like. Sequence numbers are max(existing)+1,
// starting at 1. Directory names without a valid integer prefix are skipped.
// A revision directory missing its HEAD artifact is an interrupted write; if
// it holds the highest sequence number its number is reused so a re-run
// replaces it.
func (s *Store) NextRevision(pr PullRequest) (NextRevision, error) {
	dir, err := s.PRDir(pr)
	if err != nil {
		return NextRevision{}, err
	}
	revs, partials, err := scanRevisions(dir)
	if err != nil {
		return NextRevision{}, fmt.Errorf("pr %d: %w", pr.Number, err)
	}

	var nr NextRevision
	maxSeq := 0
	for _, r := range revs {
		if r.Seq > maxSeq {
			maxSeq = r.Seq
			nr.PriorHead = r.Head
		}
	}
	nr.Seq = maxSeq + 1

	for _, p := range partials {
		if p.Seq >= nr.Seq {
			nr.Seq = p.Seq
			nr.Incomplete = p.Dir
		}
	}
	return nr, nil
}

// Revisions returns the complete revisions of pr in sequence order.
func (s *Store) Revisions(pr PullRequest) ([]Revision, error) {
	dir, err := s.PRDir(pr)
	if err != nil {
		return nil, err
	}
	revs, _, err := scanRevisions(dir)
	if err != nil {
		return nil, fmt.Errorf("pr %d: %w", pr.Number, err)
	}
	return revs, nil
}

// scanRevisions lists the revision directories under a PR directory, reading
// each one's HEAD artifact. Entries without a readable HEAD are returned as
// partials with an empty Head.
func scanRevisions(prDir string) (revs, partials []Revision, err error) {
	entries, err := os.ReadDir(prDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading revision directories: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		seq, ok := leadingSeq(e.Name())
		if !ok {
			continue
		}
		dir := filepath.Join(prDir, e.Name())
		head, err := os.ReadFile(filepath.Join(dir, headFile))
		if err != nil {
			partials = append(partials, Revision{Seq: seq, Dir: dir})
			continue
		}
		revs = append(revs, Revision{
			Seq:  seq,
			Head: strings.TrimSpace(string(head)),
			Dir:  dir,
		})
	}
	sort.Slice(revs, func(i, j int) bool { return revs[i].Seq < revs[j].Seq })
	sort.Slice(partials, func(i, j int) bool { return partials[i].Seq < partials[j].Seq })
	return revs, partials, nil
}
