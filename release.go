package selfupdate

// NoReleaseNotes is the text used when no release has been published yet.
const NoReleaseNotes = "No releases available yet"

// defaultReleaseNotes is used when a release has an empty description.
const defaultReleaseNotes = "No release notes available."

// ReleaseInfo is the result of a version check.
// Available is true when LatestVersion is greater than CurrentVersion,
// in which case DownloadURL is never empty.
type ReleaseInfo struct {
	// Available reports whether LatestVersion is newer than CurrentVersion
	Available bool
	// LatestVersion is the latest published version, without the leading "v"
	LatestVersion string
	// CurrentVersion is the installed version
	CurrentVersion string
	// DownloadURL is the URL of the release archive. It is empty when no release has been published.
	DownloadURL string
	// AssetName is the name of the release asset, or empty when DownloadURL is a source archive
	AssetName string
	// ValidationURL is the URL of the checksum asset (only set when a Validator is configured)
	ValidationURL string
	// ReleaseNotes is the description of the release
	ReleaseNotes string
	// DetailsURL is a URL to the release page for browsing
	DetailsURL string
}

// HasDownload reports whether the release carries a download URL.
func (r ReleaseInfo) HasDownload() bool {
	return r.DownloadURL != ""
}

func noReleasesInfo(currentVersion, releasesURL string) *ReleaseInfo {
	return &ReleaseInfo{
		Available:      false,
		LatestVersion:  currentVersion,
		CurrentVersion: currentVersion,
		ReleaseNotes:   NoReleaseNotes,
		DetailsURL:     releasesURL,
	}
}
