package ack

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// MessageFile and SignedFile are the ACK artifacts kept alongside a
// revision's snapshot.
const (
	MessageFile = "ack_message.txt"
	SignedFile  = "ack_message.asc"
)

// Header returns the initial ACK message for a reviewed revision: the ACK
// line naming the exact commit, a link to the pushed review tag, and a
// collapsed platform-data section. The user edits the result before signing.
func Header(headSHA, tag, tagURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ACK %s ([`%s`](%s))\n\n", headSHA, tag, tagURL)
	b.WriteString("<details><summary>Show platform data</summary>\n<p>\n\n")
	b.WriteString("```\n")
	fmt.Fprintf(&b, "Tested on %s\n", Platform())
	b.WriteString("```\n\n")
	b.WriteString("</p></details>\n\n")
	return b.String()
}

// Platform describes the machine the review was tested on.
func Platform() string {
	return fmt.Sprintf("%s/%s (%s)", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// TagURL returns the link to a review tag pushed to the user's fork.
func TagURL(ghUser, repo, tag string) string {
	return fmt.Sprintf("https://github.com/%s/%s/tree/%s", ghUser, repo, tag)
}

// Verify reports whether msg acknowledges the given commit. Guards against
// posting an ACK message written for a different revision.
func Verify(msg, headSHA string) error {
	short := headSHA
	if len(short) > 6 {
		short = short[:6]
	}
	if !strings.Contains(msg, "ACK "+short) {
		return fmt.Errorf("message does not ACK %s", short)
	}
	return nil
}

// Sign clearsigns the message file with the given GPG key, writing the
// armored output to signedPath.
func Sign(ctx context.Context, keyID, msgPath, signedPath string) error {
	cmd := exec.CommandContext(ctx, "gpg", "-u", keyID, "-o", signedPath, "--yes", "--clearsign", msgPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("gpg clearsign with key %s: %s: %s", keyID, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// WrapSigned appends the armored signature to the ACK message inside a
// collapsed section, ready to paste as a PR comment.
func WrapSigned(msg, armored string) string {
	var b strings.Builder
	b.WriteString(msg)
	b.WriteString("\n<details><summary>Show signature data</summary>\n<p>\n\n")
	b.WriteString("```\n")
	b.WriteString(strings.TrimRight(armored, "\n"))
	b.WriteString("\n```\n\n</p></details>\n")
	return b.String()
}
