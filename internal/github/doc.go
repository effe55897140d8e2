// Package github provides a minimal GitHub REST API client for fetching
// pull-request metadata.
//
// Only the fields ackr needs are decoded (number, author login, title, base
// branch, head SHA); the raw response body is carried alongside so snapshots
// can persist the API document verbatim. NotFound and authentication
// failures are distinguishable error kinds via [IsNotFound] and
// [IsAuthError]. A GITHUB_TOKEN environment variable is honored but not
// required.
package github
