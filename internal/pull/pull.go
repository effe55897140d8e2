package pull

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jamesob/ackr/internal/checklist"
	"github.com/jamesob/ackr/internal/gitcmd"
	"github.com/jamesob/ackr/internal/github"
	"github.com/jamesob/ackr/internal/store"
)

// ErrTagConflict is returned when the computed review tag already exists but
// points at a different commit. The pull aborts before any snapshot is
// written; nothing is ever overwritten silently.
var ErrTagConflict = errors.New("tag conflict")

// MetadataClient fetches pull-request metadata from the hosting service.
type MetadataClient interface {
	GetPR(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
}

// Git is the slice of the version-control wrapper the pull flow needs.
type Git interface {
	FetchPR(ctx context.Context, remote, baseBranch string, number int) error
	RevParse(ctx context.Context, ref string) (string, error)
	MergeBase(ctx context.Context, a, b string) (string, error)
	Diff(ctx context.Context, base, tip string) (string, error)
	Commits(ctx context.Context, base, tip string) ([]gitcmd.Commit, error)
	TagTarget(ctx context.Context, name string) (string, bool, error)
	CreateTag(ctx context.Context, name, target string) error
}

// Deps are the collaborators a pull composes.
type Deps struct {
	Store  *store.Store
	Client MetadataClient
	Git    Git
	Remote string
	Owner  string
	Repo   string
	Now    func() time.Time // nil means time.Now
}

// Result describes the outcome of a pull.
type Result struct {
	PR       store.PullRequest
	Head     string
	Seq      int
	Tag      string
	Dir      string
	UpToDate bool
}

// Run records a new revision of a pull request: it fetches the current PR
// state, and if the branch tip moved since the last recorded revision it
// writes a snapshot, creates the review tag, and links the revision into the
// by-date index. If the tip is unchanged the pull is a no-op reported via
// Result.UpToDate.
//
// The storage root is locked from sequencing through indexing. Failures are
// wrapped with the failing step; no compensation of prior steps is attempted
// (a snapshot without a tag is a re-runnable inconsistency, not a hidden one).
func Run(ctx context.Context, d Deps, number int) (*Result, error) {
	meta, err := d.Client.GetPR(ctx, d.Owner, d.Repo, number)
	if err != nil {
		return nil, err
	}
	pr := store.PullRequest{Number: meta.Number, Author: meta.Author, Title: meta.Title}

	if err := d.Git.FetchPR(ctx, d.Remote, meta.BaseBranch, number); err != nil {
		return nil, fmt.Errorf("fetch pr %d: %w", number, err)
	}
	tip, err := d.Git.RevParse(ctx, gitcmd.PRRef(d.Remote, number))
	if err != nil {
		return nil, fmt.Errorf("resolve pr %d tip: %w", number, err)
	}

	release, err := d.Store.Lock()
	if err != nil {
		return nil, fmt.Errorf("pr %d: %w", number, err)
	}
	defer release()

	nr, err := d.Store.NextRevision(pr)
	if err != nil {
		return nil, fmt.Errorf("sequence pr %d: %w", number, err)
	}

	if nr.PriorHead == tip {
		return &Result{PR: pr, Head: tip, Seq: nr.Seq - 1, UpToDate: true}, nil
	}

	// The tag is the precondition gate: a conflicting tag aborts the pull
	// before any snapshot write, so a revision directory never exists for a
	// tip that could not be tagged.
	tag := store.TagName(pr.Number, nr.Seq, pr.Author, pr.Title)
	target, tagged, err := d.Git.TagTarget(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("check tag %s: %w", tag, err)
	}
	if tagged && target != tip {
		return nil, fmt.Errorf("tag %s points at %s, not %s: %w",
			tag, store.ShortSHA(target), store.ShortSHA(tip), ErrTagConflict)
	}

	base, err := d.Git.MergeBase(ctx, d.Remote+"/"+meta.BaseBranch, tip)
	if err != nil {
		return nil, fmt.Errorf("find base of pr %d: %w", number, err)
	}
	diff, err := d.Git.Diff(ctx, base, tip)
	if err != nil {
		return nil, fmt.Errorf("diff pr %d against base: %w", number, err)
	}
	commits, err := d.Git.Commits(ctx, base, tip)
	if err != nil {
		return nil, fmt.Errorf("list pr %d commits: %w", number, err)
	}

	if nr.Incomplete != "" {
		if err := os.RemoveAll(nr.Incomplete); err != nil {
			return nil, fmt.Errorf("discard partial snapshot %s: %w", nr.Incomplete, err)
		}
	}
	dir, err := d.Store.WriteSnapshot(pr, nr.Seq, store.Artifacts{
		Meta:      meta.Raw,
		Head:      tip,
		BaseDiff:  diff,
		Checklist: checklist.Build(commits),
	})
	if err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	if !tagged {
		if err := d.Git.CreateTag(ctx, tag, tip); err != nil {
			return nil, fmt.Errorf("create tag %s: %w", tag, err)
		}
	}

	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	if err := d.Store.Reindex(now(), dir); err != nil {
		return nil, fmt.Errorf("index revision %d of pr %d: %w", nr.Seq, number, err)
	}

	return &Result{PR: pr, Head: tip, Seq: nr.Seq, Tag: tag, Dir: dir}, nil
}
