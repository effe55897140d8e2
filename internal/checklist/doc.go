// Package checklist generates the review-checklist.md artifact: a markdown
// task list with one unchecked item per commit in a PR's branch, ordered
// oldest to newest so review proceeds in commit order.
package checklist
