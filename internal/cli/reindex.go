package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesob/ackr/internal/config"
	"github.com/jamesob/ackr/internal/store"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the by-date index from the primary store",
	Long: "The by-date area is a derived view; this recreates every entry from the\n" +
		"revision directories and drops links whose targets no longer exist.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		n, err := store.New(cfg.StorageDir).RebuildIndex()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		fmt.Fprintf(os.Stdout, "Rebuilt by-date index (%d entries)\n", n)
		return nil
	},
}
