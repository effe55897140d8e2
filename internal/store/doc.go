// Package store implements the on-disk revision ledger for reviewed pull
// requests.
//
// The storage root owns one directory per pull request, named
// <NUMBER>.<AUTHOR>.<TITLE_SLUG>. Each revision of a PR's branch gets an
// immutable subdirectory <SEQ>.<SHORT_SHA> holding four artifacts: pr.json
// (verbatim API metadata), HEAD (full commit hash), base.diff (unified diff
// against the PR base), and review-checklist.md. A by-date/ area holds
// date-keyed symlinks into the revision directories as a derived,
// rebuildable view.
//
// The filesystem is the sole source of truth: sequence numbers are computed
// from directory listings at call time ([Store.NextRevision]), snapshots are
// written to a temporary sibling and renamed into place
// ([Store.WriteSnapshot]), and the by-date index can always be regenerated
// from the primary store ([Store.RebuildIndex]). [Store.Lock] serializes
// concurrent invocations with an advisory lock file at the root.
package store
