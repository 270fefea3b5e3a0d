package selfupdate

import (
	"github.com/google/go-github/v30/github"
)

type GitHubRelease struct {
	tagName      string
	url          string
	zipballURL   string
	releaseNotes string
	assets       []SourceAsset
}

func NewGitHubRelease(from *github.RepositoryRelease) *GitHubRelease {
	release := &GitHubRelease{
		tagName:      from.GetTagName(),
		url:          from.GetHTMLURL(),
		zipballURL:   from.GetZipballURL(),
		releaseNotes: from.GetBody(),
		assets:       make([]SourceAsset, 0, len(from.Assets)),
	}
	for i := range from.Assets {
		asset := from.Assets[i]
		release.assets = append(release.assets, &GitHubAsset{
			name: asset.GetName(),
			size: asset.GetSize(),
			url:  asset.GetBrowserDownloadURL(),
		})
	}
	return release
}

func (r *GitHubRelease) GetTagName() string {
	return r.tagName
}

func (r *GitHubRelease) GetReleaseNotes() string {
	return r.releaseNotes
}

func (r *GitHubRelease) GetURL() string {
	return r.url
}

func (r *GitHubRelease) GetSourceArchiveURL() string {
	return r.zipballURL
}

func (r *GitHubRelease) GetAssets() []SourceAsset {
	return r.assets
}

type GitHubAsset struct {
	name string
	size int
	url  string
}

func (a *GitHubAsset) GetName() string {
	return a.name
}

func (a *GitHubAsset) GetSize() int {
	return a.size
}

func (a *GitHubAsset) GetBrowserDownloadURL() string {
	return a.url
}

// Verify interface
var (
	_ SourceRelease = &GitHubRelease{}
	_ SourceAsset   = &GitHubAsset{}
)
