package selfupdate

import (
	"code.gitea.io/sdk/gitea"
)

type GiteaRelease struct {
	tagName      string
	url          string
	zipURL       string
	releaseNotes string
	assets       []SourceAsset
}

func NewGiteaRelease(from *gitea.Release) *GiteaRelease {
	release := &GiteaRelease{
		tagName:      from.TagName,
		url:          from.HTMLURL,
		zipURL:       from.ZipURL,
		releaseNotes: from.Note,
		assets:       make([]SourceAsset, 0, len(from.Attachments)),
	}

	for _, fromAsset := range from.Attachments {
		if fromAsset == nil {
			continue
		}
		release.assets = append(release.assets, NewGiteaAsset(fromAsset))
	}

	return release
}

func (r *GiteaRelease) GetTagName() string {
	return r.tagName
}

func (r *GiteaRelease) GetReleaseNotes() string {
	return r.releaseNotes
}

func (r *GiteaRelease) GetURL() string {
	return r.url
}

func (r *GiteaRelease) GetSourceArchiveURL() string {
	return r.zipURL
}

func (r *GiteaRelease) GetAssets() []SourceAsset {
	return r.assets
}

type GiteaAsset struct {
	name string
	size int
	url  string
}

func NewGiteaAsset(from *gitea.Attachment) *GiteaAsset {
	return &GiteaAsset{
		name: from.Name,
		size: int(from.Size),
		url:  from.DownloadURL,
	}
}

func (a *GiteaAsset) GetName() string {
	return a.name
}

func (a *GiteaAsset) GetSize() int {
	return a.size
}

func (a *GiteaAsset) GetBrowserDownloadURL() string {
	return a.url
}

// Verify interface
var (
	_ SourceRelease = &GiteaRelease{}
	_ SourceAsset   = &GiteaAsset{}
)
