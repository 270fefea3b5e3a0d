package selfupdate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Resolver compares the installed version with the latest release published on a Source.
type Resolver struct {
	source      Source
	validator   Validator
	versionPath string

	mu             sync.Mutex
	currentVersion string
}

// NewResolver creates a Resolver reading the installed version from versionPath,
// unless currentVersion is set.
func NewResolver(source Source, validator Validator, versionPath, currentVersion string) *Resolver {
	return &Resolver{
		source:         source,
		validator:      validator,
		versionPath:    versionPath,
		currentVersion: currentVersion,
	}
}

// InstalledVersion returns the version of the installation.
// A missing, unreadable or empty version file gives DefaultVersion.
func (r *Resolver) InstalledVersion() string {
	r.mu.Lock()
	current := r.currentVersion
	r.mu.Unlock()
	if current != "" {
		return normalizeTag(current)
	}

	content, err := os.ReadFile(r.versionPath)
	if err != nil {
		log.Printf("Cannot read version file: %s", err)
		return DefaultVersion
	}
	version := normalizeTag(string(content))
	if version == "" {
		return DefaultVersion
	}
	return version
}

// setInstalledVersion overrides the installed version once an update is completed,
// when the version is not read from a file
func (r *Resolver) setInstalledVersion(version string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.currentVersion != "" {
		r.currentVersion = version
	}
}

// CheckForUpdate queries the source once for its latest release, within the timeout (DefaultCheckTimeout if zero).
// A source without any release is not an error: the ReleaseInfo is not available and carries no download URL.
// Any other failure is returned as a *CheckError.
func (r *Resolver) CheckForUpdate(ctx context.Context, timeout time.Duration) (*ReleaseInfo, error) {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	current := r.InstalledVersion()
	release, err := r.source.LatestRelease(ctx)
	if errors.Is(err, ErrNoReleases) {
		log.Print("No release published yet")
		return noReleasesInfo(current, r.source.ReleasesURL()), nil
	}
	if err != nil {
		return nil, &CheckError{Err: err}
	}

	info := r.releaseInfo(release, current)
	if info.Available && !info.HasDownload() {
		return nil, &CheckError{Err: errors.New("release " + release.GetTagName() + " has no downloadable archive")}
	}
	log.Printf("Installed version %s, latest version %s (update available: %v)", info.CurrentVersion, info.LatestVersion, info.Available)
	return info, nil
}

// CheckInBackground runs CheckForUpdate on a new goroutine and calls notify only when an update is available.
// Failures are logged and otherwise ignored. The returned channel is closed when the check is over.
func (r *Resolver) CheckInBackground(ctx context.Context, timeout time.Duration, notify func(*ReleaseInfo)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		info, err := r.CheckForUpdate(ctx, timeout)
		if err != nil {
			log.Printf("Background update check failed: %s", err)
			return
		}
		if info.Available && notify != nil {
			notify(info)
		}
	}()
	return done
}

func (r *Resolver) releaseInfo(release SourceRelease, current string) *ReleaseInfo {
	latest := normalizeTag(release.GetTagName())
	info := &ReleaseInfo{
		Available:      CompareVersions(latest, current) > 0,
		LatestVersion:  latest,
		CurrentVersion: current,
		ReleaseNotes:   release.GetReleaseNotes(),
		DetailsURL:     release.GetURL(),
	}
	if strings.TrimSpace(info.ReleaseNotes) == "" {
		info.ReleaseNotes = defaultReleaseNotes
	}
	if info.DetailsURL == "" {
		info.DetailsURL = r.source.ReleasesURL()
	}

	assets := release.GetAssets()
	for _, asset := range assets {
		if strings.HasSuffix(strings.ToLower(asset.GetName()), ".zip") && asset.GetBrowserDownloadURL() != "" {
			info.AssetName = asset.GetName()
			info.DownloadURL = asset.GetBrowserDownloadURL()
			break
		}
	}
	if info.DownloadURL == "" {
		info.DownloadURL = release.GetSourceArchiveURL()
	}

	if r.validator != nil {
		validationName := r.validator.GetValidationAssetName(archiveName(info))
		for _, asset := range assets {
			if asset.GetName() == validationName {
				info.ValidationURL = asset.GetBrowserDownloadURL()
				break
			}
		}
	}
	return info
}

// archiveName is the file name used to store the archive of the release
func archiveName(info *ReleaseInfo) string {
	if info.AssetName != "" {
		return filepath.Base(info.AssetName)
	}
	name := info.DownloadURL
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	name = name[strings.LastIndex(name, "/")+1:]
	if name == "" || name == "." || name == ".." {
		return "release"
	}
	return name
}
