package selfupdate

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v30/github"
	"golang.org/x/oauth2"
)

const githubAPIURL = "https://api.github.com/"

// GitHubConfig is an object to pass to NewGitHubSource
type GitHubConfig struct {
	// Repository is the "owner/name" of the GitHub repository publishing the releases
	Repository Repository
	// APIToken represents GitHub API token. If it's not empty, it will be used for authentication of GitHub API
	APIToken string
	// EnterpriseBaseURL is a base URL of GitHub API. If you want to use this library with GitHub Enterprise,
	// please set "https://{your-organization-address}/api/v3/" to this field.
	EnterpriseBaseURL string
	// EnterpriseUploadURL is a URL to upload stuffs to GitHub Enterprise instance. This is often the same as an API base URL.
	// So if this field is not set and EnterpriseBaseURL is set, EnterpriseBaseURL is also set to this field.
	EnterpriseUploadURL string
	// UserAgent identifies the client to the API (default to DefaultUserAgent)
	UserAgent string
	// HTTPClient is the base http client (default to a new http.Client)
	HTTPClient *http.Client
}

// GitHubSource is used to load release information from GitHub
type GitHubSource struct {
	api     *github.Client
	owner   string
	repo    string
	token   string
	baseURL string
}

// NewGitHubSource creates a new GitHubSource from a config object.
// It initializes a GitHub API client.
// If you set your API token to the $GITHUB_TOKEN environment variable, the client will use it.
// The function will return an error if the repository is invalid
// or if the GitHub Entreprise URLs in the config object cannot be parsed
func NewGitHubSource(config GitHubConfig) (*GitHubSource, error) {
	if config.Repository == nil {
		return nil, ErrInvalidSlug
	}
	owner, repo, err := config.Repository.GetSlug()
	if err != nil {
		return nil, err
	}
	token := config.APIToken
	if token == "" {
		// try the environment variable
		token = os.Getenv("GITHUB_TOKEN")
	}
	hc := newHTTPClient(config.HTTPClient, token)

	var client *github.Client
	baseURL := githubAPIURL
	if config.EnterpriseBaseURL == "" {
		// public (or private) repository on standard GitHub offering
		client = github.NewClient(hc)
	} else {
		u := config.EnterpriseUploadURL
		if u == "" {
			u = config.EnterpriseBaseURL
		}
		client, err = github.NewEnterpriseClient(config.EnterpriseBaseURL, u, hc)
		if err != nil {
			return nil, fmt.Errorf("cannot parse GitHub entreprise URL: %w", err)
		}
		baseURL = client.BaseURL.String()
	}
	client.UserAgent = config.UserAgent
	if client.UserAgent == "" {
		client.UserAgent = DefaultUserAgent
	}

	return &GitHubSource{
		api:     client,
		owner:   owner,
		repo:    repo,
		token:   token,
		baseURL: baseURL,
	}, nil
}

// LatestRelease returns the latest published release (drafts and pre-releases are never returned by the API).
// A 404 means the repository has no published release yet: it returns ErrNoReleases.
func (s *GitHubSource) LatestRelease(ctx context.Context) (SourceRelease, error) {
	rel, res, err := s.api.Repositories.GetLatestRelease(ctx, s.owner, s.repo)
	if err != nil {
		log.Printf("API returned an error response: %s", err)
		if res != nil && res.StatusCode == http.StatusNotFound {
			log.Print("API returned 404. No release published yet")
			return nil, ErrNoReleases
		}
		return nil, fmt.Errorf("cannot get the latest release of %s/%s: %w", s.owner, s.repo, err)
	}
	return NewGitHubRelease(rel), nil
}

// ReleasesURL returns the web page listing the releases of the repository
func (s *GitHubSource) ReleasesURL() string {
	web := "https://github.com/"
	if s.baseURL != githubAPIURL {
		web = strings.TrimSuffix(s.baseURL, "api/v3/")
	}
	return fmt.Sprintf("%s%s/%s/releases", web, s.owner, s.repo)
}

// Token returns the API token and the domain it is valid for
func (s *GitHubSource) Token() (string, string) {
	return s.token, s.baseURL
}

func newHTTPClient(base *http.Client, token string) *http.Client {
	if base == nil {
		base = &http.Client{}
	}
	if token == "" {
		return base
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return oauth2.NewClient(ctx, src)
}

// Verify interface
var (
	_ Source      = &GitHubSource{}
	_ TokenSource = &GitHubSource{}
)
