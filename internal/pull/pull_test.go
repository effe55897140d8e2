package pull

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesob/ackr/internal/gitcmd"
	"github.com/jamesob/ackr/internal/github"
	"github.com/jamesob/ackr/internal/store"
)

const (
	headA = "abc1234567890abc1234567890abc1234567890a"
	headB = "def4567890abcdef4567890abcdef4567890abcd"
)

type fakeClient struct {
	pr  *github.PullRequest
	err error
}

func (c *fakeClient) GetPR(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	return c.pr, c.err
}

type fakeGit struct {
	tip     string
	tags    map[string]string
	fetched int
	created []string
}

func (g *fakeGit) FetchPR(ctx context.Context, remote, baseBranch string, number int) error {
	g.fetched++
	return nil
}

func (g *fakeGit) RevParse(ctx context.Context, ref string) (string, error) {
	return g.tip, nil
}

func (g *fakeGit) MergeBase(ctx context.Context, a, b string) (string, error) {
	return "9999999999999999999999999999999999999999", nil
}

func (g *fakeGit) Diff(ctx context.Context, base, tip string) (string, error) {
	return "diff --git a/f b/f\n", nil
}

func (g *fakeGit) Commits(ctx context.Context, base, tip string) ([]gitcmd.Commit, error) {
	return []gitcmd.Commit{{SHA: tip, Subject: "fix the loop"}}, nil
}

func (g *fakeGit) TagTarget(ctx context.Context, name string) (string, bool, error) {
	sha, ok := g.tags[name]
	return sha, ok, nil
}

func (g *fakeGit) CreateTag(ctx context.Context, name, target string) error {
	if g.tags == nil {
		g.tags = map[string]string{}
	}
	g.tags[name] = target
	g.created = append(g.created, name)
	return nil
}

func testDeps(t *testing.T, git *fakeGit) Deps {
	t.Helper()
	return Deps{
		Store: store.New(t.TempDir()),
		Client: &fakeClient{pr: &github.PullRequest{
			Number:     100,
			Author:     "alice",
			Title:      "Fix off-by-one",
			BaseBranch: "master",
			HeadSHA:    git.tip,
			Raw:        []byte(`{"number":100}`),
		}},
		Git:    git,
		Remote: "upstream",
		Owner:  "bitcoin",
		Repo:   "bitcoin",
		Now:    func() time.Time { return time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC) },
	}
}

func TestFirstPullCreatesRevision(t *testing.T) {
	git := &fakeGit{tip: headA}
	d := testDeps(t, git)

	res, err := Run(context.Background(), d, 100)
	require.NoError(t, err)
	assert.False(t, res.UpToDate)
	assert.Equal(t, 1, res.Seq)
	assert.Equal(t, headA, res.Head)
	assert.Equal(t, "ackr/100.1.alice.fix_off_by_one", res.Tag)
	assert.Equal(t, "1.abc1234", filepath.Base(res.Dir))
	assert.Equal(t, "100.alice.fix_off_by_one", filepath.Base(filepath.Dir(res.Dir)))

	for _, name := range []string{"pr.json", "HEAD", "base.diff", "review-checklist.md"} {
		_, err := os.Stat(filepath.Join(res.Dir, name))
		assert.NoError(t, err, "missing %s", name)
	}
	assert.Equal(t, []string{"ackr/100.1.alice.fix_off_by_one"}, git.created)

	entry := filepath.Join(d.Store.ByDateDir(), "2026-08-31.100.alice.fix_off_by_one.1")
	_, err = os.Lstat(entry)
	assert.NoError(t, err)
}

func TestUnchangedHeadIsNoOp(t *testing.T) {
	git := &fakeGit{tip: headA}
	d := testDeps(t, git)

	_, err := Run(context.Background(), d, 100)
	require.NoError(t, err)

	res, err := Run(context.Background(), d, 100)
	require.NoError(t, err)
	assert.True(t, res.UpToDate)
	assert.Equal(t, 1, res.Seq)

	// No second revision, tag, or index entry appeared.
	revs, err := d.Store.Revisions(store.PullRequest{Number: 100, Author: "alice", Title: "Fix off-by-one"})
	require.NoError(t, err)
	assert.Len(t, revs, 1)
	assert.Len(t, git.created, 1)
	entries, err := os.ReadDir(d.Store.ByDateDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewHeadGetsNextSequence(t *testing.T) {
	git := &fakeGit{tip: headA}
	d := testDeps(t, git)

	first, err := Run(context.Background(), d, 100)
	require.NoError(t, err)

	git.tip = headB
	res, err := Run(context.Background(), d, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Seq)
	assert.Equal(t, "ackr/100.2.alice.fix_off_by_one", res.Tag)
	assert.Equal(t, "2.def4567", filepath.Base(res.Dir))

	// Revision 1 and its tag are untouched.
	_, err = os.Stat(filepath.Join(first.Dir, "HEAD"))
	assert.NoError(t, err)
	assert.Equal(t, headA, git.tags["ackr/100.1.alice.fix_off_by_one"])

	entry := filepath.Join(d.Store.ByDateDir(), "2026-08-31.100.alice.fix_off_by_one.2")
	_, err = os.Lstat(entry)
	assert.NoError(t, err)
}

func TestTagConflictAbortsBeforeSnapshot(t *testing.T) {
	git := &fakeGit{tip: headA}
	d := testDeps(t, git)
	_, err := Run(context.Background(), d, 100)
	require.NoError(t, err)

	// The next tag already exists, pointing at an unrelated commit.
	git.tip = headB
	git.tags["ackr/100.2.alice.fix_off_by_one"] = "1111111111111111111111111111111111111111"

	_, err = Run(context.Background(), d, 100)
	require.ErrorIs(t, err, ErrTagConflict)

	revs, err := d.Store.Revisions(store.PullRequest{Number: 100, Author: "alice", Title: "Fix off-by-one"})
	require.NoError(t, err)
	assert.Len(t, revs, 1, "no revision-2 directory should be left behind")
}

func TestExistingTagOnSameTipIsReused(t *testing.T) {
	git := &fakeGit{tip: headA, tags: map[string]string{
		"ackr/100.1.alice.fix_off_by_one": headA,
	}}
	d := testDeps(t, git)

	res, err := Run(context.Background(), d, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Seq)
	assert.Empty(t, git.created, "tag creation should be skipped")
}

func TestPartialSnapshotIsOverwritten(t *testing.T) {
	git := &fakeGit{tip: headA}
	d := testDeps(t, git)
	_, err := Run(context.Background(), d, 100)
	require.NoError(t, err)

	// Simulate an interrupted second pull: revision dir without artifacts.
	pr := store.PullRequest{Number: 100, Author: "alice", Title: "Fix off-by-one"}
	prDir, err := d.Store.PRDir(pr)
	require.NoError(t, err)
	partial := filepath.Join(prDir, "2."+headB[:7])
	require.NoError(t, os.MkdirAll(partial, 0o755))

	git.tip = headB
	res, err := Run(context.Background(), d, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Seq)

	_, err = os.Stat(filepath.Join(res.Dir, "HEAD"))
	assert.NoError(t, err)
}

func TestNotFoundPropagatesKind(t *testing.T) {
	d := testDeps(t, &fakeGit{tip: headA})
	d.Client = &fakeClient{err: fmt.Errorf("PR #100: %w", github.ErrNotFound)}

	_, err := Run(context.Background(), d, 100)
	require.Error(t, err)
	assert.True(t, github.IsNotFound(err))
}
