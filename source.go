package selfupdate

import (
	"context"
)

// SourceRelease is a release as published by a registry.
type SourceRelease interface {
	GetTagName() string
	GetReleaseNotes() string
	GetURL() string
	// GetSourceArchiveURL returns the auto-generated archive of the sources for the tag (if any)
	GetSourceArchiveURL() string

	GetAssets() []SourceAsset
}

// SourceAsset is a downloadable file attached to a release.
type SourceAsset interface {
	GetName() string
	GetSize() int
	GetBrowserDownloadURL() string
}

// Source interface to load the latest release from (GitHubSource for example)
type Source interface {
	// LatestRelease returns the latest published release.
	// It returns ErrNoReleases when the registry has nothing published yet.
	LatestRelease(ctx context.Context) (SourceRelease, error)
	// ReleasesURL returns the web page listing the releases
	ReleasesURL() string
}

// TokenSource is implemented by sources holding an API token,
// which can then be reused to download assets from the same domain.
type TokenSource interface {
	Token() (token, domain string)
}
