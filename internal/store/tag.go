package store

import (
	"fmt"
	"strconv"
	"strings"
)

// TagPrefix is the git ref namespace for review tags.
const TagPrefix = "ackr/"

// TagName derives the git tag marking revision seq of a pull request:
// ackr/<NUMBER>.<SEQ>.<AUTHOR>.<TITLE_SLUG>. The result is deterministic for
// identical inputs, which idempotent re-tagging checks rely on.
func TagName(number, seq int, author, title string) string {
	return fmt.Sprintf("%s%d.%d.%s.%s", TagPrefix, number, seq, author, Slugify(title))
}

// ParseTag splits an ackr tag into its components. The slug is returned as
// recorded in the tag; the author may itself contain no dots, which GitHub
// logins guarantee.
func ParseTag(tag string) (number, seq int, author, slug string, err error) {
	rest, ok := strings.CutPrefix(tag, TagPrefix)
	if !ok {
		return 0, 0, "", "", fmt.Errorf("not an ackr tag: %q", tag)
	}
	parts := strings.SplitN(rest, ".", 4)
	if len(parts) != 4 {
		return 0, 0, "", "", fmt.Errorf("malformed ackr tag: %q", tag)
	}
	number, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, "", "", fmt.Errorf("malformed ackr tag %q: %w", tag, err)
	}
	seq, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, "", "", fmt.Errorf("malformed ackr tag %q: %w", tag, err)
	}
	return number, seq, parts[2], parts[3], nil
}

// FindRevisionDir resolves an ackr tag to its revision directory.
func (s *Store) FindRevisionDir(tag string) (string, error) {
	number, seq, author, slug, err := ParseTag(tag)
	if err != nil {
		return "", err
	}
	revs, err := s.Revisions(PullRequest{Number: number, Author: author, Title: slug})
	if err != nil {
		return "", err
	}
	for _, r := range revs {
		if r.Seq == seq {
			return r.Dir, nil
		}
	}
	return "", fmt.Errorf("no revision %d recorded for pr %d", seq, number)
}
