package checklist

import (
	"fmt"
	"strings"

	"github.com/jamesob/ackr/internal/gitcmd"
)

// Build renders a review checklist for a branch's commits, oldest first,
// one unchecked item per commit:
//
//	- [ ] abc1234 validation: fix off-by-one in loop bound
func Build(commits []gitcmd.Commit) string {
	if len(commits) == 0 {
		return ""
	}
	var b strings.Builder
	for _, c := range commits {
		fmt.Fprintf(&b, "- [ ] %s %s\n", shortSHA(c.SHA), c.Subject)
	}
	return b.String()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
