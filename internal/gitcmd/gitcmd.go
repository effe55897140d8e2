package gitcmd

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes git commands in the current working directory.
type Runner struct {
	// Verbose, when non-nil, receives each command line before it runs.
	Verbose io.Writer
}

// Commit holds a commit SHA and its subject line.
type Commit struct {
	SHA     string
	Subject string
}

// PRRef returns the local ref a pull request's head is fetched to.
func PRRef(remote string, number int) string {
	return fmt.Sprintf("%s/pr/%d", remote, number)
}

// FetchPR fetches the base branch and the pull request head from remote,
// pinning the head under refs/<remote>/pr/<number>.
func (r *Runner) FetchPR(ctx context.Context, remote, baseBranch string, number int) error {
	refspec := fmt.Sprintf("+refs/pull/%d/head:refs/%s/pr/%d", number, remote, number)
	_, err := r.output(ctx, "fetch", remote, baseBranch, refspec)
	if err != nil {
		return fmt.Errorf("fetching pr %d from %s: %w", number, remote, err)
	}
	return nil
}

// RevParse resolves a ref to a full commit hash.
func (r *Runner) RevParse(ctx context.Context, ref string) (string, error) {
	out, err := r.output(ctx, "rev-parse", ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// MergeBase returns the best common ancestor of two commits.
func (r *Runner) MergeBase(ctx context.Context, a, b string) (string, error) {
	out, err := r.output(ctx, "merge-base", a, b)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Diff returns the unified diff from base to tip.
func (r *Runner) Diff(ctx context.Context, base, tip string) (string, error) {
	return r.output(ctx, "diff", base, tip)
}

// Commits lists the non-merge commits reachable from tip but not base,
// oldest first.
func (r *Runner) Commits(ctx context.Context, base, tip string) ([]Commit, error) {
	out, err := r.output(ctx, "rev-list", "--reverse", "--no-merges", "--format=%s", base+".."+tip)
	if err != nil {
		return nil, err
	}
	return parseRevList(out), nil
}

// TagTarget resolves a tag to the commit it points at. A missing tag is
// reported as exists == false, not an error.
func (r *Runner) TagTarget(ctx context.Context, name string) (sha string, exists bool, err error) {
	out, err := r.output(ctx, "rev-parse", "-q", "--verify", "refs/tags/"+name+"^{commit}")
	if err != nil {
		return "", false, nil
	}
	return strings.TrimSpace(out), true, nil
}

// CreateTag creates a lightweight tag pointing at target.
func (r *Runner) CreateTag(ctx context.Context, name, target string) error {
	if _, err := r.output(ctx, "tag", name, target); err != nil {
		return fmt.Errorf("tagging %s as %s: %w", target, name, err)
	}
	return nil
}

// TagsAt returns the tags pointing at a revision.
func (r *Runner) TagsAt(ctx context.Context, rev string) ([]string, error) {
	out, err := r.output(ctx, "tag", "--points-at", rev)
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tags = append(tags, line)
		}
	}
	return tags, nil
}

// ConfigValue reads a git configuration value; missing keys yield "".
func (r *Runner) ConfigValue(ctx context.Context, key string) string {
	out, err := r.output(ctx, "config", "--get", key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// IsRepo reports whether the working directory is inside a git repository.
func (r *Runner) IsRepo(ctx context.Context) bool {
	_, err := r.output(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// HasRemote reports whether the repository has a remote with the given name.
func (r *Runner) HasRemote(ctx context.Context, name string) bool {
	out, err := r.output(ctx, "remote")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == name {
			return true
		}
	}
	return false
}

// parseRevList decodes `git rev-list --format=%s` output, which emits a
// "commit <sha>" line followed by the subject for each commit.
func parseRevList(out string) []Commit {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	var commits []Commit
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "commit ") {
			continue
		}
		c := Commit{SHA: strings.TrimPrefix(line, "commit ")}
		if i+1 < len(lines) {
			c.Subject = strings.TrimSpace(lines[i+1])
			i++
		}
		commits = append(commits, c)
	}
	return commits
}

func (r *Runner) output(ctx context.Context, args ...string) (string, error) {
	if r.Verbose != nil {
		fmt.Fprintf(r.Verbose, "[cmd] git %s\n", strings.Join(args, " "))
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("git %s: %s: %s",
				strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
