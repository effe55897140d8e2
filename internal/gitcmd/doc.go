// Package gitcmd wraps the git commands ackr depends on: fetching PR heads,
// resolving refs, computing merge-base diffs, listing commits, and creating
// review tags.
//
// All operations shell out to git in the current working directory, which is
// expected to be the clone under review. A [Runner] with a Verbose writer
// echoes each command line before it runs.
package gitcmd
