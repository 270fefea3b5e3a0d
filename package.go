package selfupdate

import "context"

// CheckForUpdate checks the installation described by config against its source.
// This function is a shortcut version of updater.CheckForUpdate, using DefaultCheckTimeout.
func CheckForUpdate(ctx context.Context, config Config) (*ReleaseInfo, error) {
	up, err := NewUpdater(config)
	if err != nil {
		return nil, err
	}
	return up.CheckForUpdate(ctx, 0)
}

// UpdateInstallation checks for an update and installs it when one is available.
// This function is a shortcut version of updater.PerformUpdate.
// It returns ErrNoUpdateAvailable when the installation is up to date.
func UpdateInstallation(ctx context.Context, config Config, onProgress ProgressFunc) (*InstallStats, error) {
	up, err := NewUpdater(config)
	if err != nil {
		return nil, err
	}
	return up.PerformUpdate(ctx, nil, onProgress)
}
