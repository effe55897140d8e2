// Ackr is a CLI that maintains a local, append-only record of pull-request
// review activity.
//
// Each `ackr pull` of a PR snapshots the hosting-service metadata, the diff
// against the PR's base, and a generated commit-review checklist, tags the
// exact commit reviewed as ackr/<PR>.<SEQ>.<AUTHOR>.<TITLE_SLUG>, and links
// the revision into a by-date index.
//
// Usage:
//
//	ackr pull 23155          # record the latest revision of PR #23155
//	ackr review              # open the checklist for the revision at HEAD
//	ackr ack                 # write, sign, and print an ACK message
//	ackr show 23155          # print the PR's API metadata
//	ackr reindex             # rebuild the by-date index
//	ackr config init         # create a default config file
package main
