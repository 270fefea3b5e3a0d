package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keyflight/selfupdate/internal"
)

// busy is held while a check or an update session runs, whatever the Updater instance:
// only one of them can touch the installation at a time.
var busy atomic.Bool

// Updater drives the update of an installation: checking the latest release,
// downloading and merging it into the install root, then restarting the application.
type Updater struct {
	source      Source
	validator   Validator
	installRoot string
	scratchDir  string
	exclude     ExcludeFunc
	resolver    *Resolver
	fetcher     *Fetcher
	installer   *Installer
	restarter   *Restarter
	// progressHook is called synchronously with every progress report of a session
	progressHook ProgressFunc

	mu       sync.Mutex
	state    State
	lastInfo *ReleaseInfo
	lastErr  *ErrorDetail
	session  *Session
}

// NewUpdater creates a new updater instance.
// A Source is required; every other field of the configuration has a default.
func NewUpdater(config Config) (*Updater, error) {
	if config.Source == nil {
		return nil, ErrSourceRequired
	}

	installRoot := config.InstallRoot
	if installRoot == "" {
		dir, err := internal.ExecutableDir()
		if err != nil {
			return nil, fmt.Errorf("cannot locate the installation: %w", err)
		}
		installRoot = dir
	}
	installRoot, err := filepath.Abs(installRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid installation root %q: %w", config.InstallRoot, err)
	}

	versionFile := config.VersionFile
	if versionFile == "" {
		versionFile = DefaultVersionFile
	}
	if !filepath.IsAbs(versionFile) {
		versionFile = filepath.Join(installRoot, versionFile)
	}

	exclude := config.Exclude
	if exclude == nil {
		protected := config.Protected
		if protected == nil {
			protected = DefaultProtected
		}
		exclude = NewSegmentExcluder(protected...)
	}

	return &Updater{
		source:      config.Source,
		validator:   config.Validator,
		installRoot: installRoot,
		scratchDir:  config.ScratchDir,
		exclude:     exclude,
		resolver:    NewResolver(config.Source, config.Validator, versionFile, config.CurrentVersion),
		fetcher:     NewFetcher(config.HTTPClient, config.UserAgent, config.Source),
		installer:   NewInstaller(),
		restarter:   NewRestarter(config.Launcher, os.Args[1:]),
		state:       Idle,
	}, nil
}

// State returns the current state of the updater
func (u *Updater) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// InstallRoot returns the directory of the installation
func (u *Updater) InstallRoot() string {
	return u.installRoot
}

// InstalledVersion returns the version currently installed
func (u *Updater) InstalledVersion() string {
	return u.resolver.InstalledVersion()
}

// ReleasesURL returns the web page listing the releases
func (u *Updater) ReleasesURL() string {
	return u.source.ReleasesURL()
}

// Session returns the current or the last update session (nil before the first one)
func (u *Updater) Session() *Session {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.session
}

// LastError returns the failure of the last check or session, if it failed
func (u *Updater) LastError() *ErrorDetail {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastErr
}

// transition moves the state machine, and reports whether the move is allowed.
func (u *Updater) transition(to State) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !canTransition(u.state, to) {
		log.Printf("Invalid update state transition: %s -> %s", u.state, to)
		return false
	}
	u.state = to
	return true
}

// CheckForUpdate queries the source for the latest release.
// It returns ErrSessionActive when a check or an update is already running in the process.
// On success the updater is either UpToDate or UpdateAvailable, and Failed otherwise.
func (u *Updater) CheckForUpdate(ctx context.Context, timeout time.Duration) (*ReleaseInfo, error) {
	if !busy.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}
	defer busy.Store(false)

	if !u.transition(Checking) {
		return nil, ErrSessionActive
	}
	info, err := u.resolver.CheckForUpdate(ctx, timeout)
	if err != nil {
		u.mu.Lock()
		u.lastErr = newErrorDetail(err)
		u.mu.Unlock()
		u.transition(Failed)
		return nil, err
	}

	u.mu.Lock()
	u.lastInfo = info
	u.lastErr = nil
	u.mu.Unlock()
	if info.Available {
		u.transition(UpdateAvailable)
	} else {
		u.transition(UpToDate)
	}
	return info, nil
}

// Start downloads and installs the release on a new goroutine, and returns the session following it.
// The updater must be in the UpdateAvailable state; a nil info means the release found by the last check.
// Cancelling ctx (or calling Cancel) stops the session at the next checkpoint.
func (u *Updater) Start(ctx context.Context, info *ReleaseInfo) (*Session, error) {
	if !busy.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}

	u.mu.Lock()
	if info == nil {
		info = u.lastInfo
	}
	state := u.state
	u.mu.Unlock()

	if state != UpdateAvailable || info == nil || !info.Available || !info.HasDownload() {
		busy.Store(false)
		return nil, ErrNoUpdateAvailable
	}

	ctx, cancel := context.WithCancel(ctx)
	session := newSession(info, cancel)
	u.mu.Lock()
	u.session = session
	u.lastErr = nil
	u.mu.Unlock()

	u.transition(Downloading)
	session.update(Downloading, 0, "Starting download...")
	log.Printf("Update session %s started: %s -> %s", session.shortID(), info.CurrentVersion, info.LatestVersion)

	go u.run(ctx, session)
	return session, nil
}

// PerformUpdate checks for an update when none is pending, then installs it and waits for the end of the session.
// onProgress (optional) receives every progress event.
func (u *Updater) PerformUpdate(ctx context.Context, info *ReleaseInfo, onProgress ProgressFunc) (*InstallStats, error) {
	if info == nil && u.State() != UpdateAvailable {
		checked, err := u.CheckForUpdate(ctx, 0)
		if err != nil {
			return nil, err
		}
		if !checked.Available {
			return nil, ErrNoUpdateAvailable
		}
		info = checked
	}

	session, err := u.Start(ctx, info)
	if err != nil {
		return nil, err
	}
	for event := range session.Events() {
		if onProgress != nil {
			onProgress(event.Progress, event.Message)
		}
	}
	stats, err := session.Wait()
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Cancel stops the running session, if any
func (u *Updater) Cancel() {
	if session := u.Session(); session != nil {
		session.Cancel()
	}
}

// Restart starts the new version of the application once an update is completed.
// It returns false in any other state, or when nothing could be started.
// The caller is responsible for exiting the current process.
func (u *Updater) Restart() bool {
	if u.State() != Completed {
		log.Print("No completed update to restart")
		return false
	}
	return u.restarter.RestartApplication(u.installRoot)
}

func (u *Updater) run(ctx context.Context, session *Session) {
	defer session.cancel()

	stats, err := u.download(ctx, session)

	if dir := session.Snapshot().ScratchDir; dir != "" {
		if err == nil {
			session.report(90, "Cleaning up...")
		}
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			log.Printf("Update session %s: cannot remove scratch directory %q: %s", session.shortID(), dir, removeErr)
		}
	}
	session.setStats(stats)

	switch {
	case err == nil:
		u.resolver.setInstalledVersion(session.info.LatestVersion)
		u.transition(Completed)
		busy.Store(false)
		log.Printf("Update session %s completed: %d files copied, %d skipped", session.shortID(), stats.FilesCopied, stats.FilesSkipped)
		session.finish(Completed, fmt.Sprintf("Update to %s installed", session.info.LatestVersion), nil, nil)

	case errors.Is(err, ErrCancelled):
		u.transition(Cancelled)
		busy.Store(false)
		log.Printf("Update session %s cancelled (%d files copied)", session.shortID(), stats.FilesCopied)
		session.finish(Cancelled, "Update cancelled", ErrCancelled, nil)

	default:
		detail := newErrorDetail(err)
		u.mu.Lock()
		u.lastErr = detail
		u.mu.Unlock()
		u.transition(Failed)
		busy.Store(false)
		log.Printf("Update session %s failed: %s", session.shortID(), err)
		session.finish(Failed, detail.Message, detail, detail)
	}
}

// download fetches, validates and installs the release of the session
func (u *Updater) download(ctx context.Context, session *Session) (InstallStats, error) {
	info := session.info
	scratch, err := os.MkdirTemp(u.scratchDir, "keyflight-update-"+session.shortID()+"-")
	if err != nil {
		return InstallStats{}, &FetchError{URL: info.DownloadURL, Err: err}
	}
	session.setScratchDir(scratch)

	report := session.report
	if u.progressHook != nil {
		report = func(percent int, message string) {
			session.report(percent, message)
			u.progressHook(percent, message)
		}
	}

	name := archiveName(info)
	archivePath := filepath.Join(scratch, name)
	if err := u.fetcher.Fetch(ctx, info.DownloadURL, archivePath, report); err != nil {
		return InstallStats{}, err
	}

	if u.validator != nil {
		if err := u.validate(ctx, info, name, archivePath); err != nil {
			return InstallStats{}, err
		}
	}

	if ctx.Err() != nil {
		return InstallStats{}, ErrCancelled
	}
	u.transition(Installing)
	session.update(Installing, 50, "Extracting update...")
	return u.installer.Install(ctx, archivePath, u.installRoot, report, u.exclude)
}

func (u *Updater) validate(ctx context.Context, info *ReleaseInfo, name, archivePath string) error {
	if info.ValidationURL == "" {
		return &ValidationError{Filename: name, Err: fmt.Errorf("%w: %q", ErrValidationAssetNotFound, u.validator.GetValidationAssetName(name))}
	}
	asset, err := u.fetcher.FetchBytes(ctx, info.ValidationURL)
	if err != nil {
		if ctx.Err() != nil {
			return ErrCancelled
		}
		return err
	}
	if err := validateFile(u.validator, name, archivePath, asset); err != nil {
		return err
	}
	log.Printf("Validated %s", name)
	return nil
}
