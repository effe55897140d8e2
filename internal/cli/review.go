package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesob/ackr/internal/config"
	"github.com/jamesob/ackr/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review [tag]",
	Short: "Open the review checklist for a revision in $EDITOR",
	Long: "Resolve an ackr tag to its revision directory and open the checklist.\n" +
		"Without an argument, uses the ackr tag pointing at the repository's HEAD.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := context.Background()
		git := gitRunner()

		var tag string
		if len(args) == 1 {
			tag = args[0]
		} else {
			if err := ensureRepo(ctx, git, cfg.Remote); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			tag, err = currentAckrTag(ctx, git)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
		}

		dir, err := store.New(cfg.StorageDir).FindRevisionDir(tag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		path := store.ChecklistPath(dir)
		if err := runEditor(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		fmt.Fprintln(os.Stdout, path)
		return nil
	},
}

// runEditor opens path in the user's editor, attached to the terminal.
func runEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", editor, err)
	}
	return nil
}
