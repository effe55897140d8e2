package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jamesob/ackr/internal/config"
	"github.com/jamesob/ackr/internal/github"
)

var showCmd = &cobra.Command{
	Use:   "show <pr-number>",
	Short: "Print the hosting-service metadata for a pull request",
	Args:  cobra.ExactArgs(1),
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

		pr, err := github.NewClient().GetPR(context.Background(), cfg.Owner, cfg.Repo, number)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if github.IsAuthError(err) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitRuntimeError
			}
			return nil
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, pr.Raw, "", "  "); err != nil {
			fmt.Fprintln(os.Stdout, string(pr.Raw))
			return nil
		}
		fmt.Fprintln(os.Stdout, pretty.String())
		return nil
	},
}
