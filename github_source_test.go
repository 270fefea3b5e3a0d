package selfupdate

import (
	"context"
	"os"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const githubLatestURL = "https://api.github.com/repos/keyflight/configurator/releases/latest"

const githubLatestJSON = `{
	"tag_name": "v1.3.0",
	"body": "Faster startup",
	"html_url": "https://github.com/keyflight/configurator/releases/tag/v1.3.0",
	"zipball_url": "https://api.github.com/repos/keyflight/configurator/zipball/v1.3.0",
	"assets": [
		{"name": "checksums.txt", "size": 120, "browser_download_url": "https://github.com/keyflight/configurator/releases/download/v1.3.0/checksums.txt"},
		{"name": "configurator-1.3.0.zip", "size": 4096, "browser_download_url": "https://github.com/keyflight/configurator/releases/download/v1.3.0/configurator-1.3.0.zip"}
	]
}`

func newTestGitHubSource(t *testing.T) *GitHubSource {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "")
	source, err := NewGitHubSource(GitHubConfig{Repository: ParseSlug("keyflight/configurator")})
	require.NoError(t, err)
	return source
}

func TestGitHubTokenEnv(t *testing.T) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		t.Skip("because $GITHUB_TOKEN is not set")
	}

	source, err := NewGitHubSource(GitHubConfig{Repository: ParseSlug("keyflight/configurator")})
	require.NoError(t, err)
	got, domain := source.Token()
	assert.Equal(t, token, got)
	assert.Equal(t, githubAPIURL, domain)
}

func TestGitHubSourceInvalidRepository(t *testing.T) {
	_, err := NewGitHubSource(GitHubConfig{})
	assert.ErrorIs(t, err, ErrInvalidSlug)

	_, err = NewGitHubSource(GitHubConfig{Repository: ParseSlug("keyflight/")})
	assert.ErrorIs(t, err, ErrIncorrectParameterRepo)
}

func TestGitHubEnterpriseClientInvalidURL(t *testing.T) {
	_, err := NewGitHubSource(GitHubConfig{
		Repository:        ParseSlug("keyflight/configurator"),
		APIToken:          "my_token",
		EnterpriseBaseURL: ":this is not a URL",
	})
	assert.Error(t, err)
}

func TestGitHubEnterpriseReleasesURL(t *testing.T) {
	source, err := NewGitHubSource(GitHubConfig{
		Repository:        ParseSlug("keyflight/configurator"),
		APIToken:          "my_token",
		EnterpriseBaseURL: "https://git.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://git.example.com/keyflight/configurator/releases", source.ReleasesURL())
}

func TestGitHubReleasesURL(t *testing.T) {
	source := newTestGitHubSource(t)
	assert.Equal(t, "https://github.com/keyflight/configurator/releases", source.ReleasesURL())
}

func TestGitHubLatestRelease(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", githubLatestURL, httpmock.NewStringResponder(200, githubLatestJSON))

	source := newTestGitHubSource(t)
	rel, err := source.LatestRelease(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "v1.3.0", rel.GetTagName())
	assert.Equal(t, "Faster startup", rel.GetReleaseNotes())
	assert.Equal(t, "https://github.com/keyflight/configurator/releases/tag/v1.3.0", rel.GetURL())
	assert.Equal(t, "https://api.github.com/repos/keyflight/configurator/zipball/v1.3.0", rel.GetSourceArchiveURL())
	require.Len(t, rel.GetAssets(), 2)
	assert.Equal(t, "configurator-1.3.0.zip", rel.GetAssets()[1].GetName())
	assert.Equal(t, 4096, rel.GetAssets()[1].GetSize())
}

func TestGitHubLatestReleaseNotFound(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", githubLatestURL, httpmock.NewStringResponder(404, `{"message":"Not Found"}`))

	source := newTestGitHubSource(t)
	_, err := source.LatestRelease(context.Background())
	assert.ErrorIs(t, err, ErrNoReleases)
}

func TestGitHubLatestReleaseServerError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", githubLatestURL, httpmock.NewStringResponder(500, `{"message":"boom"}`))

	source := newTestGitHubSource(t)
	_, err := source.LatestRelease(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoReleases)
}

func TestGitHubLatestReleaseContextCancelled(t *testing.T) {
	source := newTestGitHubSource(t)

	ctx, cancelFn := context.WithCancel(context.Background())
	cancelFn()

	_, err := source.LatestRelease(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
