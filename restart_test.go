package selfupdate

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/keyflight/selfupdate/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStart(t *testing.T, result error) *[]*exec.Cmd {
	t.Helper()
	started := make([]*exec.Cmd, 0, 1)
	previous := startProcess
	startProcess = func(cmd *exec.Cmd) error {
		started = append(started, cmd)
		return result
	}
	t.Cleanup(func() { startProcess = previous })
	return &started
}

func TestRestartWithLauncherScript(t *testing.T) {
	started := captureStart(t, nil)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "launch-gui.sh"), []byte("#!/bin/sh\n"), 0o755))

	ok := NewRestarter("launch-gui.sh", nil).RestartApplication(root)
	assert.True(t, ok)
	require.Len(t, *started, 1)
	cmd := (*started)[0]
	assert.Equal(t, []string{"/bin/sh", filepath.Join(root, "launch-gui.sh")}, cmd.Args)
	assert.Equal(t, root, cmd.Dir)
	assert.NotNil(t, cmd.SysProcAttr)
}

func TestRestartWithBatchLauncher(t *testing.T) {
	started := captureStart(t, nil)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "launch-gui.bat"), []byte("@echo off\r\n"), 0o644))

	ok := NewRestarter("launch-gui.bat", nil).RestartApplication(root)
	assert.True(t, ok)
	require.Len(t, *started, 1)
	assert.Equal(t, []string{"cmd", "/C", filepath.Join(root, "launch-gui.bat")}, (*started)[0].Args)
}

func TestRestartFallsBackToExecutable(t *testing.T) {
	started := captureStart(t, nil)
	root := t.TempDir()

	ok := NewRestarter("", []string{"--minimized"}).RestartApplication(root)
	assert.True(t, ok)
	require.Len(t, *started, 1)

	exe, err := internal.GetExecutablePath()
	require.NoError(t, err)
	cmd := (*started)[0]
	assert.Equal(t, exe, cmd.Path)
	assert.Equal(t, []string{exe, "--minimized"}, cmd.Args)
}

func TestRestartFailure(t *testing.T) {
	started := captureStart(t, errors.New("cannot start"))
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultLauncher()), []byte("launcher"), 0o755))

	assert.False(t, NewRestarter("", nil).RestartApplication(root))
	// launcher first, then the executable
	assert.Len(t, *started, 2)
}

func TestRestartLauncherFailureFallsBackToExecutable(t *testing.T) {
	started := make([]*exec.Cmd, 0, 2)
	previous := startProcess
	startProcess = func(cmd *exec.Cmd) error {
		started = append(started, cmd)
		if len(started) == 1 {
			return errors.New("exec format error")
		}
		return nil
	}
	t.Cleanup(func() { startProcess = previous })

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "launch-gui.sh"), []byte("#!/bin/sh\n"), 0o755))

	ok := NewRestarter("launch-gui.sh", []string{"--minimized"}).RestartApplication(root)
	assert.True(t, ok)
	require.Len(t, started, 2)

	exe, err := internal.GetExecutablePath()
	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/sh", filepath.Join(root, "launch-gui.sh")}, started[0].Args)
	assert.Equal(t, []string{exe, "--minimized"}, started[1].Args)
}

func TestRestartIgnoresLauncherDirectory(t *testing.T) {
	started := captureStart(t, nil)
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "launch-gui.sh"), 0o755))

	assert.True(t, NewRestarter("launch-gui.sh", nil).RestartApplication(root))
	require.Len(t, *started, 1)
	assert.NotEqual(t, "/bin/sh", (*started)[0].Args[0])
}

func TestLauncherCommand(t *testing.T) {
	assert.Equal(t, []string{"cmd", "/C", "run.CMD"}, launcherCommand("run.CMD").Args)
	assert.Equal(t, []string{"/bin/sh", "run.sh"}, launcherCommand("run.sh").Args)
	assert.Equal(t, []string{"run"}, launcherCommand("run").Args)
}
