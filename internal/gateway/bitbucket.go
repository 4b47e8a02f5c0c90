// Package gateway provides a client for Bitbucket Server's REST API,
// including the walker that flattens its paged endpoints.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	defaultStart = 0
	defaultLimit = 25
)

// ErrPaginationLimit is returned when a paged endpoint produces more pages
// than the configured safety cap allows.
var ErrPaginationLimit = errors.New("pagination page limit exceeded")

// RequestError wraps any transport failure or non-2xx response from the
// server. 4xx and 5xx are not distinguished and nothing is retried.
type RequestError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Fetcher defines the behavior of a gateway for fetching information from
// Bitbucket Server.
type Fetcher interface {
	Projects(ctx context.Context) ([]Project, error)
	ProjectGroupPermissions(ctx context.Context, projectKey string) ([]GroupPermission, error)
	ProjectUserPermissions(ctx context.Context, projectKey string) ([]UserPermission, error)
	Repos(ctx context.Context, projectKey string) ([]Repo, error)
	RepoGroupPermissions(ctx context.Context, projectKey, repoSlug string) ([]GroupPermission, error)
	RepoUserPermissions(ctx context.Context, projectKey, repoSlug string) ([]UserPermission, error)
	PullRequests(ctx context.Context, projectKey, repoSlug, state string) ([]PullRequest, error)
	PullRequestCommits(ctx context.Context, projectKey, repoSlug string, pullRequestID int64) ([]Commit, error)
	PullRequestTaskCount(ctx context.Context, projectKey, repoSlug string, pullRequestID int64) (TaskCount, error)
	PullRequestIssues(ctx context.Context, projectKey, repoSlug string, pullRequestID int64) ([]Issue, error)
}

// basicAuthTransport decorates every outgoing request with the configured
// basic-auth credential.
type basicAuthTransport struct {
	username string
	password string
	base     http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.SetBasicAuth(t.username, t.password)
	return t.base.RoundTrip(clone)
}

// Client is the concrete Fetcher backed by Bitbucket Server's REST API.
// It holds no request state beyond the credential and base URLs.
type Client struct {
	httpClient *http.Client
	coreURL    string
	jiraURL    string
	maxPages   int
	logger     *logrus.Logger
}

// Option configures optional Client behavior.
type Option func(*Client)

// WithMaxPages caps how many pages a single walk may fetch. Zero keeps the
// walk unbounded.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		c.maxPages = n
	}
}

// NewClient creates a Client for the Bitbucket server at baseURL,
// authenticating every request with the given basic-auth credential.
func NewClient(baseURL, username, password string, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &basicAuthTransport{
				username: username,
				password: password,
				base:     http.DefaultTransport,
			},
		},
		coreURL: baseURL + "/rest/api/1.0",
		jiraURL: baseURL + "/rest/jira/1.0",
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// pageEnvelope is the envelope every paged Bitbucket endpoint responds with.
type pageEnvelope struct {
	Values        json.RawMessage `json:"values"`
	IsLastPage    bool            `json:"isLastPage"`
	NextPageStart int             `json:"nextPageStart"`
	Limit         int             `json:"limit"`
}

// walk flattens a paged endpoint into one slice. Pages are requested
// sequentially, the server-echoed limit is reused for the next request,
// and the concatenation preserves page order. A single failed page aborts
// the whole walk.
func walk[T any](ctx context.Context, c *Client, rawURL, extraQuery string) ([]T, error) {
	start, limit := defaultStart, defaultLimit
	var values []T
	for page := 0; ; page++ {
		if c.maxPages > 0 && page >= c.maxPages {
			return nil, fmt.Errorf("%w: %s after %d pages", ErrPaginationLimit, rawURL, page)
		}

		requestURL := fmt.Sprintf("%s?start=%d&limit=%d%s", rawURL, start, limit, extraQuery)
		var envelope pageEnvelope
		if err := c.getJSON(ctx, requestURL, &envelope); err != nil {
			return nil, err
		}

		if len(envelope.Values) > 0 {
			var pageValues []T
			if err := json.Unmarshal(envelope.Values, &pageValues); err != nil {
				return nil, &RequestError{URL: requestURL, Err: err}
			}
			values = append(values, pageValues...)
		}

		if envelope.IsLastPage {
			return values, nil
		}
		start, limit = envelope.NextPageStart, envelope.Limit
		c.logger.Debugf("fetching next page of %s (start=%d)", rawURL, start)
	}
}

// fetchOne performs a single non-paged GET.
func fetchOne[T any](ctx context.Context, c *Client, rawURL string) (T, error) {
	var value T
	err := c.getJSON(ctx, rawURL, &value)
	return value, err
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &RequestError{URL: rawURL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body)
		return &RequestError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{URL: rawURL, Err: err}
	}
	return nil
}

func (c *Client) projectURL(projectKey string) string {
	return c.coreURL + "/projects/" + projectKey
}

func (c *Client) repoURL(projectKey, repoSlug string) string {
	return c.projectURL(projectKey) + "/repos/" + repoSlug
}

func (c *Client) pullRequestURL(projectKey, repoSlug string) string {
	return c.repoURL(projectKey, repoSlug) + "/pull-requests"
}

// Projects retrieves every project visible to the authenticated user.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	return walk[Project](ctx, c, c.coreURL+"/projects", "")
}

// ProjectGroupPermissions retrieves the group permissions of a project.
func (c *Client) ProjectGroupPermissions(ctx context.Context, projectKey string) ([]GroupPermission, error) {
	return walk[GroupPermission](ctx, c, c.projectURL(projectKey)+"/permissions/groups", "")
}

// ProjectUserPermissions retrieves the user permissions of a project.
func (c *Client) ProjectUserPermissions(ctx context.Context, projectKey string) ([]UserPermission, error) {
	return walk[UserPermission](ctx, c, c.projectURL(projectKey)+"/permissions/users", "")
}

// Repos retrieves every repo of a project.
func (c *Client) Repos(ctx context.Context, projectKey string) ([]Repo, error) {
	return walk[Repo](ctx, c, c.projectURL(projectKey)+"/repos", "")
}

// RepoGroupPermissions retrieves the group permissions of a repo.
func (c *Client) RepoGroupPermissions(ctx context.Context, projectKey, repoSlug string) ([]GroupPermission, error) {
	return walk[GroupPermission](ctx, c, c.repoURL(projectKey, repoSlug)+"/permissions/groups", "")
}

// RepoUserPermissions retrieves the user permissions of a repo.
func (c *Client) RepoUserPermissions(ctx context.Context, projectKey, repoSlug string) ([]UserPermission, error) {
	return walk[UserPermission](ctx, c, c.repoURL(projectKey, repoSlug)+"/permissions/users", "")
}

// PullRequests retrieves a repo's pull requests in the given state. An
// empty state defaults to OPEN.
func (c *Client) PullRequests(ctx context.Context, projectKey, repoSlug, state string) ([]PullRequest, error) {
	if state == "" {
		state = "OPEN"
	}
	return walk[PullRequest](ctx, c, c.pullRequestURL(projectKey, repoSlug), "&state="+state)
}

// PullRequestCommits retrieves the commits of a pull request.
func (c *Client) PullRequestCommits(ctx context.Context, projectKey, repoSlug string, pullRequestID int64) ([]Commit, error) {
	return walk[Commit](ctx, c, fmt.Sprintf("%s/%d/commits", c.pullRequestURL(projectKey, repoSlug), pullRequestID), "")
}

// PullRequestTaskCount retrieves the open/resolved task counts of a pull request.
func (c *Client) PullRequestTaskCount(ctx context.Context, projectKey, repoSlug string, pullRequestID int64) (TaskCount, error) {
	return fetchOne[TaskCount](ctx, c, fmt.Sprintf("%s/%d/tasks/count", c.pullRequestURL(projectKey, repoSlug), pullRequestID))
}

// PullRequestIssues retrieves the Jira issues linked to a pull request via
// the Jira integration endpoint.
func (c *Client) PullRequestIssues(ctx context.Context, projectKey, repoSlug string, pullRequestID int64) ([]Issue, error) {
	return fetchOne[[]Issue](ctx, c, fmt.Sprintf("%s/projects/%s/repos/%s/pull-requests/%d/issues", c.jiraURL, projectKey, repoSlug, pullRequestID))
}
