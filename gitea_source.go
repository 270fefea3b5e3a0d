package selfupdate

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"code.gitea.io/sdk/gitea"
)

// GiteaConfig is an object to pass to NewGiteaSource
type GiteaConfig struct {
	// Repository is the "owner/name" of the Gitea repository publishing the releases
	Repository Repository
	// APIToken represents Gitea API token. If it's not empty, it will be used for authentication for the API
	APIToken string
	// BaseURL is a base URL of your gitea instance. This parameter has NO default value.
	BaseURL string
	// HTTPClient is the base http client (default to a new http.Client)
	HTTPClient *http.Client
}

// GiteaSource is used to load release information from Gitea
type GiteaSource struct {
	api     *gitea.Client
	owner   string
	repo    string
	token   string
	baseURL string
}

// NewGiteaSource creates a new GiteaSource from a config object.
// It initializes a Gitea API Client, which queries the version of the server.
// If you set your API token to the $GITEA_TOKEN environment variable, the client will use it.
func NewGiteaSource(config GiteaConfig) (*GiteaSource, error) {
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
		token = os.Getenv("GITEA_TOKEN")
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("gitea base url must be set")
	}

	options := []gitea.ClientOption{gitea.SetToken(token)}
	if config.HTTPClient != nil {
		options = append(options, gitea.SetHTTPClient(config.HTTPClient))
	}
	client, err := gitea.NewClient(config.BaseURL, options...)
	if err != nil {
		return nil, fmt.Errorf("error connecting to gitea: %w", err)
	}

	return &GiteaSource{
		api:     client,
		owner:   owner,
		repo:    repo,
		token:   token,
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
	}, nil
}

// LatestRelease returns the most recent release which is neither a draft nor a pre-release.
func (s *GiteaSource) LatestRelease(ctx context.Context) (SourceRelease, error) {
	s.api.SetContext(ctx)
	rels, res, err := s.api.ListReleases(s.owner, s.repo, gitea.ListReleasesOptions{})
	if err != nil {
		log.Printf("API returned an error response: %s", err)
		if res != nil && res.StatusCode == http.StatusNotFound {
			// 404 means repository not found or release not found. It's not an error here.
			log.Print("API returned 404. Repository or release not found")
			return nil, ErrNoReleases
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("cannot list the releases of %s/%s: %w", s.owner, s.repo, err)
	}
	// releases are sorted from the most recent
	for _, rel := range rels {
		if rel == nil || rel.IsDraft || rel.IsPrerelease {
			continue
		}
		return NewGiteaRelease(rel), nil
	}
	return nil, ErrNoReleases
}

// ReleasesURL returns the web page listing the releases of the repository
func (s *GiteaSource) ReleasesURL() string {
	return fmt.Sprintf("%s/%s/%s/releases", s.baseURL, s.owner, s.repo)
}

// Token returns the API token and the domain it is valid for
func (s *GiteaSource) Token() (string, string) {
	return s.token, s.baseURL
}

// Verify interface
var (
	_ Source      = &GiteaSource{}
	_ TokenSource = &GiteaSource{}
)
