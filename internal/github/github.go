package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.github.com"

// Error kinds surfaced to callers. Wrapped errors carry the PR context;
// check with [IsNotFound] and [IsAuthError].
var (
	ErrNotFound = errors.New("pull request not found")
	ErrAuth     = errors.New("authentication failed")
)

// IsNotFound reports whether err means the PR does not exist upstream.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool { return errors.Is(err, ErrAuth) }

// PullRequest is the metadata ackr records for a pull request. Raw holds the
// API response document verbatim; it is persisted untouched as pr.json.
type PullRequest struct {
	Number     int
	Author     string
	Title      string
	BaseBranch string
	HeadSHA    string
	Raw        []byte
}

// Client provides access to the GitHub REST API.
type Client struct {
	token   string
	apiURL  string
	httpCli *http.Client
}

// NewClient creates a GitHub client. GITHUB_TOKEN is used when set; public
// repositories work unauthenticated at a lower rate limit.
func NewClient() *Client {
	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		token:   os.Getenv("GITHUB_TOKEN"),
		apiURL:  strings.TrimRight(apiURL, "/"),
		httpCli: &http.Client{Timeout: 60 * time.Second},
	}
}

// prDocument is the subset of the API response ackr reads. The full document
// is kept verbatim in PullRequest.Raw.
type prDocument struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	User   struct {
		Login string `json:"login"`
	} `json:"user"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
	Head struct {
		SHA string `json:"sha"`
	} `json:"head"`
}

// GetPR fetches the metadata document for a pull request.
func (c *Client) GetPR(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.apiURL, owner, repo, number)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching PR metadata: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == 404 {
		return nil, fmt.Errorf("PR #%d in %s/%s: %w", number, owner, repo, ErrNotFound)
	}
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return nil, fmt.Errorf("PR #%d in %s/%s: %w: %s", number, owner, repo, ErrAuth, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("GitHub API error (status %d): %s", resp.StatusCode, string(body))
	}

	var doc prDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if doc.User.Login == "" {
		return nil, fmt.Errorf("PR #%d response missing author login", number)
	}

	return &PullRequest{
		Number:     doc.Number,
		Author:     doc.User.Login,
		Title:      doc.Title,
		BaseBranch: doc.Base.Ref,
		HeadSHA:    doc.Head.SHA,
		Raw:        body,
	}, nil
}
