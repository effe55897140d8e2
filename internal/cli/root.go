package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesob/ackr/internal/gitcmd"
	"github.com/jamesob/ackr/internal/store"
)

const version = "0.1.0"

// Exit codes.
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "ackr",
	Short: "Local ledger of pull-request review activity",
	Long: "Ackr keeps a local record of code reviewed: it sequences revisions of each\n" +
		"PR branch, snapshots metadata, diffs, and review checklists, tags the exact\n" +
		"commit reviewed, and maintains a by-date index of review activity.",
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"echo each git command before it runs")

	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(ackCmd)
	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print ackr version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "ackr version %s\n", version)
	},
}

// gitRunner builds the git wrapper, honoring the --verbose flag.
func gitRunner() *gitcmd.Runner {
	r := &gitcmd.Runner{}
	if flagVerbose {
		r.Verbose = os.Stderr
	}
	return r
}

// ensureRepo verifies the working directory is a git clone with the
// configured upstream remote.
func ensureRepo(ctx context.Context, git *gitcmd.Runner, remote string) error {
	if !git.IsRepo(ctx) {
		return fmt.Errorf("not inside a git repository")
	}
	if !git.HasRemote(ctx, remote) {
		return fmt.Errorf("missing %q remote; run `git remote add %s <upstream-url>`", remote, remote)
	}
	return nil
}

// currentAckrTag returns the ackr tag pointing at the repository's HEAD.
func currentAckrTag(ctx context.Context, git *gitcmd.Runner) (string, error) {
	head, err := git.RevParse(ctx, "HEAD")
	if err != nil {
		return "", err
	}
	tags, err := git.TagsAt(ctx, head)
	if err != nil {
		return "", err
	}
	for _, t := range tags {
		if strings.HasPrefix(t, store.TagPrefix) {
			return t, nil
		}
	}
	return "", fmt.Errorf("HEAD is not an ackr-tagged revision (tags: %v)", tags)
}
