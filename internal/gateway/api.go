// Package gateway provides a gateway to the repository ranking API,
// abstracting away the underlying HTTP client.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/naka-gawa/top-repos/internal/domain"
	"github.com/sirupsen/logrus"
)

// HTTPError is returned when the API answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	StatusText string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! Status: %d. Text: %s", e.StatusCode, e.StatusText)
}

// Fetcher defines the behavior of a gateway for fetching repository data.
type Fetcher interface {
	FetchTopRepositories(ctx context.Context) ([]domain.RepositorySummary, error)
	FetchCommitActivity(ctx context.Context, owner, repo, since, until string) ([]domain.CommitActivityEntry, error)
}

// APIGateway is the concrete implementation of the Fetcher interface.
// It reuses the go-github client plumbing against an arbitrary base URL.
type APIGateway struct {
	client *github.Client
	logger *logrus.Entry
}

// NewAPIGateway is a constructor that creates a new instance of APIGateway.
func NewAPIGateway(serverURL string, httpClient *http.Client, logger *logrus.Entry) (Fetcher, error) {
	baseURL, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	client := github.NewClient(withoutRateLimitState(httpClient))
	client.BaseURL = baseURL
	return &APIGateway{
		client: client,
		logger: logger.WithField("component", "gateway"),
	}, nil
}

// rateLimitTransport drops the rate-limit headers go-github records on the
// client. The ranking server is not GitHub, and a failed call must not block
// the calls after it.
type rateLimitTransport struct {
	base http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if resp == nil {
		return resp, err
	}
	for key := range resp.Header {
		if strings.HasPrefix(http.CanonicalHeaderKey(key), "X-Ratelimit-") {
			resp.Header.Del(key)
		}
	}
	resp.Header.Del("Retry-After")
	return resp, err
}

// withoutRateLimitState returns a copy of httpClient whose transport strips
// rate-limit headers.
func withoutRateLimitState(httpClient *http.Client) *http.Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := *httpClient
	base := c.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.Transport = &rateLimitTransport{base: base}
	return &c
}

// parseBaseURL validates the server URL and guarantees the trailing slash
// the go-github client requires.
func parseBaseURL(serverURL string) (*url.URL, error) {
	if serverURL == "" {
		return nil, errors.New("server URL is empty")
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server URL %q must include scheme and host", serverURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

func (g *APIGateway) FetchTopRepositories(ctx context.Context) ([]domain.RepositorySummary, error) {
	g.logger.Debug("Fetching top repositories...")
	var repos []domain.RepositorySummary
	if err := g.get(ctx, "api/repos/top100", &repos); err != nil {
		return nil, fmt.Errorf("failed to fetch top repositories: %w", err)
	}
	g.logger.Debugf("Completed fetching %d repositories.", len(repos))
	return repos, nil
}

func (g *APIGateway) FetchCommitActivity(ctx context.Context, owner, repo, since, until string) ([]domain.CommitActivityEntry, error) {
	log := g.logger.WithField("repo", owner+"/"+repo)
	log.Debugf("Fetching commit activity since %q until %q...", since, until)

	query := url.Values{}
	query.Set("since", since)
	query.Set("until", until)
	path := fmt.Sprintf("api/repos/%s/%s/activity?%s", url.PathEscape(owner), url.PathEscape(repo), query.Encode())

	var entries []domain.CommitActivityEntry
	if err := g.get(ctx, path, &entries); err != nil {
		return nil, fmt.Errorf("failed to fetch commit activity for %s/%s: %w", owner, repo, err)
	}
	log.Debugf("Completed fetching %d activity entries.", len(entries))
	return entries, nil
}

func (g *APIGateway) get(ctx context.Context, path string, v interface{}) error {
	req, err := g.client.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if _, err := g.client.Do(ctx, req, v); err != nil {
		return toHTTPError(err)
	}
	return nil
}

// toHTTPError converts go-github's status errors into an HTTPError and
// passes every other error through unchanged.
func toHTTPError(err error) error {
	var resp *http.Response
	var errResp *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	switch {
	case errors.As(err, &errResp):
		resp = errResp.Response
	case errors.As(err, &rateErr):
		resp = rateErr.Response
	case errors.As(err, &abuseErr):
		resp = abuseErr.Response
	}
	if resp == nil {
		return err
	}
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		StatusText: strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "),
	}
	if httpErr.StatusText == "" {
		httpErr.StatusText = http.StatusText(resp.StatusCode)
	}
	if resp.Request != nil {
		httpErr.URL = resp.Request.URL.String()
	}
	return httpErr
}
