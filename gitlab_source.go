package selfupdate

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/xanzy/go-gitlab"
)

// GitLabConfig is an object to pass to NewGitLabSource
type GitLabConfig struct {
	// Repository is the "namespace/project" slug (RepositorySlug) or the numeric ID (RepositoryID)
	// of the GitLab project publishing the releases
	Repository Repository
	// APIToken represents GitLab API token. If it's not empty, it will be used for authentication for the API
	APIToken string
	// BaseURL is a base URL of your private GitLab instance
	BaseURL string
	// HTTPClient is the base http client (default to a retryable client from the GitLab library)
	HTTPClient *http.Client
}

// GitLabSource is used to load release information from GitLab
type GitLabSource struct {
	api     *gitlab.Client
	pid     interface{}
	slug    string
	token   string
	baseURL string
}

// NewGitLabSource creates a new GitLabSource from a config object.
// It initializes a GitLab API client.
// If you set your API token to the $GITLAB_TOKEN environment variable, the client will use it.
// The function will return an error if the GitLab Enterprise URLs in the config object cannot be parsed
func NewGitLabSource(config GitLabConfig) (*GitLabSource, error) {
	if config.Repository == nil {
		return nil, ErrInvalidSlug
	}
	pid, err := config.Repository.Get()
	if err != nil {
		return nil, err
	}
	token := config.APIToken
	if token == "" {
		// try the environment variable
		token = os.Getenv("GITLAB_TOKEN")
	}
	options := make([]gitlab.ClientOptionFunc, 0, 2)
	if config.BaseURL != "" {
		options = append(options, gitlab.WithBaseURL(config.BaseURL))
	}
	if config.HTTPClient != nil {
		options = append(options, gitlab.WithHTTPClient(config.HTTPClient))
	}
	client, err := gitlab.NewClient(token, options...)
	if err != nil {
		return nil, fmt.Errorf("cannot create GitLab client: %w", err)
	}
	client.UserAgent = DefaultUserAgent
	slug := fmt.Sprint(pid)
	if id, ok := pid.(int); ok {
		// the web interface redirects /projects/:id to the project page
		slug = fmt.Sprintf("projects/%d", id)
	}
	return &GitLabSource{
		api:     client,
		pid:     pid,
		slug:    slug,
		token:   token,
		baseURL: client.BaseURL().String(),
	}, nil
}

// LatestRelease returns the most recent release of the project.
// Upcoming releases are skipped.
func (s *GitLabSource) LatestRelease(ctx context.Context) (SourceRelease, error) {
	rels, res, err := s.api.Releases.ListReleases(s.pid, &gitlab.ListReleasesOptions{}, gitlab.WithContext(ctx))
	if err != nil {
		log.Printf("API returned an error response: %s", err)
		if res != nil && res.StatusCode == http.StatusNotFound {
			log.Print("API returned 404. Project or release not found")
			return nil, ErrNoReleases
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("list releases: %w", err)
	}
	for _, rel := range rels {
		if rel == nil || rel.UpcomingRelease {
			continue
		}
		return NewGitLabRelease(rel), nil
	}
	return nil, ErrNoReleases
}

// ReleasesURL returns the web page listing the releases of the project
func (s *GitLabSource) ReleasesURL() string {
	web := strings.TrimSuffix(s.baseURL, "api/v4/")
	return fmt.Sprintf("%s%s/-/releases", web, s.slug)
}

// Token returns the API token and the domain it is valid for
func (s *GitLabSource) Token() (string, string) {
	return s.token, s.baseURL
}

// Verify interface
var (
	_ Source      = &GitLabSource{}
	_ TokenSource = &GitLabSource{}
)
