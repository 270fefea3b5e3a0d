package selfupdate

import (
	"github.com/xanzy/go-gitlab"
)

type GitLabRelease struct {
	tagName     string
	url         string
	zipURL      string
	description string
	assets      []SourceAsset
}

func NewGitLabRelease(from *gitlab.Release) *GitLabRelease {
	release := &GitLabRelease{
		tagName:     from.TagName,
		url:         from.Commit.WebURL,
		description: from.Description,
		assets:      make([]SourceAsset, 0, len(from.Assets.Links)),
	}
	for _, source := range from.Assets.Sources {
		if source.Format == "zip" {
			release.zipURL = source.URL
		}
	}
	for _, fromLink := range from.Assets.Links {
		if fromLink == nil {
			continue
		}
		release.assets = append(release.assets, NewGitLabAsset(fromLink))
	}
	return release
}

func (r *GitLabRelease) GetTagName() string {
	return r.tagName
}

func (r *GitLabRelease) GetReleaseNotes() string {
	return r.description
}

func (r *GitLabRelease) GetURL() string {
	return r.url
}

func (r *GitLabRelease) GetSourceArchiveURL() string {
	return r.zipURL
}

func (r *GitLabRelease) GetAssets() []SourceAsset {
	return r.assets
}

type GitLabAsset struct {
	name string
	url  string
}

func NewGitLabAsset(from *gitlab.ReleaseLink) *GitLabAsset {
	return &GitLabAsset{
		name: from.Name,
		url:  from.URL,
	}
}

func (a *GitLabAsset) GetName() string {
	return a.name
}

// GetSize always returns 0: release links don't carry a size
func (a *GitLabAsset) GetSize() int {
	return 0
}

func (a *GitLabAsset) GetBrowserDownloadURL() string {
	return a.url
}

// Verify interface
var (
	_ SourceRelease = &GitLabRelease{}
	_ SourceAsset   = &GitLabAsset{}
)
