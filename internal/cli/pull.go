package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jamesob/ackr/internal/config"
	"github.com/jamesob/ackr/internal/github"
	"github.com/jamesob/ackr/internal/pull"
	"github.com/jamesob/ackr/internal/store"
)

var pullCmd = &cobra.Command{
	Use:   "pull <pr-number>",
	Short: "Record the latest revision of a pull request",
	Long: "Fetch the current state of a PR, and if its branch tip moved since the last\n" +
		"recorded revision: snapshot the metadata, base diff, and review checklist,\n" +
		"tag the tip, and link the revision into the by-date index.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := strconv.Atoi(args[0])
		if err != nil || number < 1 {
			fmt.Fprintf(os.Stderr, "Error: invalid PR number %q\n", args[0])
			exitCode = ExitUsageError
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := context.Background()
		git := gitRunner()
		if err := ensureRepo(ctx, git, cfg.Remote); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		st := store.New(cfg.StorageDir)
		if err := st.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(os.Stderr, "Fetching PR #%d from %s/%s...\n", number, cfg.Owner, cfg.Repo)
		res, err := pull.Run(ctx, pull.Deps{
			Store:  st,
			Client: github.NewClient(),
			Git:    git,
			Remote: cfg.Remote,
			Owner:  cfg.Owner,
			Repo:   cfg.Repo,
		}, number)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			switch {
			case github.IsAuthError(err):
				exitCode = ExitAuthError
			case errors.Is(err, pull.ErrTagConflict):
				fmt.Fprintln(os.Stderr, "Refusing to overwrite the existing tag; no snapshot was recorded.")
				exitCode = ExitRuntimeError
			default:
				exitCode = ExitRuntimeError
			}
			return nil
		}

		if res.UpToDate {
			fmt.Fprintf(os.Stdout, "PR #%d up to date (%s)\n", number, store.ShortSHA(res.Head))
			return nil
		}

		fmt.Fprintf(os.Stdout, "Tagged %s with %s\n", res.Head, res.Tag)
		fmt.Fprintf(os.Stdout, "Revision %d written to %s\n", res.Seq, res.Dir)
		return nil
	},
}
