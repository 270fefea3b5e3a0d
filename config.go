package selfupdate

import (
	"net/http"
	"time"
)

const (
	// DefaultUserAgent is the client tag sent with every registry and download request
	DefaultUserAgent = "KeyFlight-Configurator"
	// DefaultVersionFile is the name of the file holding the installed version, relative to the install root
	DefaultVersionFile = "VERSION"
	// DefaultCheckTimeout bounds a single registry query
	DefaultCheckTimeout = 10 * time.Second
)

// Config represents the configuration of self-update.
type Config struct {
	// Source where to load the releases from (example: GitHubSource)
	Source Source
	// Validator represents types which enable additional validation of downloaded release.
	// When set, a release without the matching validation asset cannot be installed.
	Validator Validator
	// InstallRoot is the directory of the installation to update.
	// Default to the directory of the running executable.
	InstallRoot string
	// VersionFile is the file holding the installed version, relative to InstallRoot (default to "VERSION")
	VersionFile string
	// CurrentVersion overrides the version read from VersionFile
	CurrentVersion string
	// Launcher is the script started after an update, relative to InstallRoot.
	// Default to "launch-gui.bat" on Windows and "launch-gui.sh" elsewhere.
	Launcher string
	// Protected are path segments (or glob patterns) never overwritten by an update.
	// Default to DefaultProtected.
	Protected []string
	// Exclude is called with every relative path found in the archive.
	// When set, it replaces the predicate built from Protected.
	Exclude ExcludeFunc
	// HTTPClient is used to download the archive (default to a client without timeout)
	HTTPClient *http.Client
	// UserAgent sent with the download requests (default to DefaultUserAgent)
	UserAgent string
	// ScratchDir is the parent directory of the session scratch directories (default to os.TempDir)
	ScratchDir string
}
