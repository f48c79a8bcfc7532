// Package github lists repository trees and fetches raw file content from
// public GitHub repositories.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v61/github"
)

// ErrInvalidURL is returned when a repository URL does not have the
// https://github.com/<owner>/<repo> shape.
var ErrInvalidURL = errors.New("invalid GitHub repository URL")

// Branches are tried in order when listing a tree.
var Branches = []string{"main", "master"}

const (
	DefaultAPIURL = "https://api.github.com"
	DefaultRawURL = "https://raw.githubusercontent.com"
	userAgent     = "autofix-scanner"
)

var repoURLPattern = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+?)(?:\.git)?/?$`)

// Repo identifies a repository.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string { return r.Owner + "/" + r.Name }

// ParseRepoURL extracts owner and name from a repository URL, stripping a
// trailing ".git".
func ParseRepoURL(raw string) (Repo, error) {
	m := repoURLPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Repo{}, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	repo := Repo{Owner: m[1], Name: strings.TrimSuffix(m[2], ".git")}
	if !validSegment(repo.Owner) || !validSegment(repo.Name) {
		return Repo{}, fmt.Errorf("%w: %q has an empty owner or repository name", ErrInvalidURL, raw)
	}
	return repo, nil
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".."
}

// TreeEntry is one item of a recursive tree listing.
type TreeEntry struct {
	Path string
	Type string
	Size *int64
}

// IsFile reports whether the entry is a file rather than a directory or submodule.
func (e TreeEntry) IsFile() bool { return e.Type == "blob" }

// SizeOrZero returns the reported size, or 0 when absent.
func (e TreeEntry) SizeOrZero() int64 {
	if e.Size == nil {
		return 0
	}
	return *e.Size
}

// Tree is a recursive listing together with the branch that served it.
type Tree struct {
	Branch    string
	Entries   []TreeEntry
	Truncated bool
}

// TreeError reports that no branch could be listed. Status is the HTTP status
// of the first attempt, or 0 when that attempt failed before a response.
type TreeError struct {
	Repo   Repo
	Status int
	Err    error
}

func (e *TreeError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fetch tree for %s: %v", e.Repo, e.Err)
	}
	return fmt.Sprintf("fetch tree for %s: GitHub API returned %d", e.Repo, e.Status)
}

func (e *TreeError) Unwrap() error { return e.Err }

// Options configures a Client.
type Options struct {
	APIURL  string
	RawURL  string
	Token   string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is then ignored.
	HTTPClient *http.Client
}

// Client lists trees through the GitHub REST API and reads file content from
// the raw-content host.
type Client struct {
	api    *gogithub.Client
	apiErr error
	rawURL string
	token  string
	client *http.Client
}

// NewClient creates a client. Empty URLs fall back to the public GitHub hosts;
// any other API URL is treated as a GitHub Enterprise endpoint.
func NewClient(opts Options) *Client {
	c := &Client{
		rawURL: strings.TrimRight(opts.RawURL, "/"),
		token:  opts.Token,
		client: opts.HTTPClient,
	}
	if c.rawURL == "" {
		c.rawURL = DefaultRawURL
	}
	if c.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.client = &http.Client{Timeout: timeout}
	}

	api := gogithub.NewClient(c.client)
	if c.token != "" {
		api = api.WithAuthToken(c.token)
	}
	if apiURL := strings.TrimRight(opts.APIURL, "/"); apiURL != "" && apiURL != DefaultAPIURL {
		enterprise, err := api.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			c.apiErr = fmt.Errorf("github api url %q: %w", opts.APIURL, err)
		} else {
			api = enterprise
		}
	}
	api.UserAgent = userAgent
	c.api = api
	return c
}

// statusError is a non-2xx raw-content response.
type statusError struct {
	status int
}

func (e *statusError) Error() string { return fmt.Sprintf("HTTP %d", e.status) }

// statusOf returns the HTTP status carried by an API error, or 0 when the
// request failed before a response.
func statusOf(err error) int {
	var er *gogithub.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode
	}
	var rl *gogithub.RateLimitError
	if errors.As(err, &rl) && rl.Response != nil {
		return rl.Response.StatusCode
	}
	var al *gogithub.AbuseRateLimitError
	if errors.As(err, &al) && al.Response != nil {
		return al.Response.StatusCode
	}
	return 0
}

// Tree lists every entry of the repository, trying each of Branches in turn.
func (c *Client) Tree(ctx context.Context, repo Repo) (*Tree, error) {
	if c.apiErr != nil {
		return nil, &TreeError{Repo: repo, Err: c.apiErr}
	}
	var first error
	for _, branch := range Branches {
		tree, err := c.tree(ctx, repo, branch)
		if err == nil {
			return tree, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if first == nil {
			first = err
		}
	}

	return nil, &TreeError{Repo: repo, Status: statusOf(first), Err: first}
}

func (c *Client) tree(ctx context.Context, repo Repo, branch string) (*Tree, error) {
	listing, _, err := c.api.Git.GetTree(ctx, repo.Owner, repo.Name, branch, true)
	if err != nil {
		return nil, err
	}

	entries := make([]TreeEntry, 0, len(listing.Entries))
	for _, e := range listing.Entries {
		entry := TreeEntry{Path: e.GetPath(), Type: e.GetType()}
		if e.Size != nil {
			size := int64(*e.Size)
			entry.Size = &size
		}
		entries = append(entries, entry)
	}
	return &Tree{Branch: branch, Entries: entries, Truncated: listing.GetTruncated()}, nil
}

// Raw fetches the text of one file at branch.
func (c *Client) Raw(ctx context.Context, repo Repo, branch, path string) (string, error) {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := fmt.Sprintf("%s/%s/%s/%s/%s",
		c.rawURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name), url.PathEscape(branch), strings.Join(segments, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", &statusError{status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
