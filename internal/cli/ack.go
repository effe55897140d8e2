package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/jamesob/ackr/internal/ack"
	"github.com/jamesob/ackr/internal/config"
	"github.com/jamesob/ackr/internal/store"
)

var ackCmd = &cobra.Command{
	Use:   "ack [message-file]",
	Short: "Write, sign, and print an ACK for the current revision",
	Long: "Assemble an ACK message for the revision HEAD is tagged as, open it in\n" +
		"$EDITOR (or read it from a file, or stdin via \"-\"), clearsign it with the\n" +
		"configured git signing key, and copy the result to the clipboard.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		head, err := git.RevParse(ctx, "HEAD")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		tag, err := currentAckrTag(ctx, git)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		dir, err := store.New(cfg.StorageDir).FindRevisionDir(tag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		msgPath := filepath.Join(dir, ack.MessageFile)
		signedPath := filepath.Join(dir, ack.SignedFile)

		linkUser := cfg.GitHubUser
		if linkUser == "" {
			linkUser = cfg.Owner
		}

		msg, err := readAckMessage(args, msgPath, func() string {
			return ack.Header(head, tag, ack.TagURL(linkUser, cfg.Repo, tag))
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if err := ack.Verify(msg, head); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if err := os.WriteFile(msgPath, []byte(msg), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", msgPath, err)
			exitCode = ExitRuntimeError
			return nil
		}
		fmt.Fprintf(os.Stderr, "Wrote ACK message to %s\n", msgPath)

		key := git.ConfigValue(ctx, "user.signingkey")
		if key == "" {
			fmt.Fprintln(os.Stderr, "Error: you need to configure git's user.signingkey")
			exitCode = ExitRuntimeError
			return nil
		}

		out := msg
		if err := ack.Sign(ctx, key, msgPath, signedPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			armored, err := os.ReadFile(signedPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: reading signature: %v\n", err)
			} else {
				out = ack.WrapSigned(msg, string(armored))
			}
		}

		sep := strings.Repeat("-", 80)
		fmt.Fprintln(os.Stdout, sep)
		fmt.Fprintln(os.Stdout, out)
		fmt.Fprintln(os.Stdout, sep)

		if err := clipboard.WriteAll(out); err == nil {
			fmt.Fprintln(os.Stderr, "ACK message copied to clipboard")
		}

		fmt.Fprintf(os.Stdout, "\nRemember to run\n\n  git push origin %s\n", tag)
		return nil
	},
}

// readAckMessage resolves the message body from the command argument: stdin
// for "-", a file path, or (with no argument) the persisted message file,
// seeded with the header and opened in the editor.
func readAckMessage(args []string, msgPath string, header func() string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading message file: %w", err)
		}
		return string(data), nil
	}

	if _, err := os.Stat(msgPath); os.IsNotExist(err) {
		if err := os.WriteFile(msgPath, []byte(header()), 0o644); err != nil {
			return "", fmt.Errorf("seeding message file: %w", err)
		}
	}
	if err := runEditor(msgPath); err != nil {
		return "", err
	}
	data, err := os.ReadFile(msgPath)
	if err != nil {
		return "", fmt.Errorf("reading edited message: %w", err)
	}
	return string(data), nil
}
