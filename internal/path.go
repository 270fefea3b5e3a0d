package internal

import (
	"os"
	"path/filepath"
)

// GetExecutablePath returns the path of the executable file with all symlinks resolved.
func GetExecutablePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}

	exe, err = ResolvePath(exe)
	if err != nil {
		return "", err
	}

	return exe, nil
}

// ExecutableDir returns the directory holding the running executable,
// which is the default installation root.
func ExecutableDir() (string, error) {
	exe, err := GetExecutablePath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}
