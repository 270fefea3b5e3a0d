package selfupdate

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/keyflight/selfupdate/internal"
)

// DefaultLauncher returns the name of the launcher script of the platform
func DefaultLauncher() string {
	if runtime.GOOS == "windows" {
		return "launch-gui.bat"
	}
	return "launch-gui.sh"
}

// startProcess is replaced in tests
var startProcess = func(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	// the child is not waited for
	return cmd.Process.Release()
}

// Restarter starts a fresh instance of the application once an update is installed.
type Restarter struct {
	launcher string
	args     []string
}

// NewRestarter creates a Restarter for the launcher script (relative to the installation root).
// args are passed to the executable when no launcher is found.
func NewRestarter(launcher string, args []string) *Restarter {
	if launcher == "" {
		launcher = DefaultLauncher()
	}
	return &Restarter{
		launcher: launcher,
		args:     args,
	}
}

// RestartApplication starts the launcher script of installRoot, or when there's none
// (or it cannot be started), the running executable again with the same arguments. The new process is detached.
// It never exits the calling process: the caller decides when to quit.
// It returns false when nothing could be started.
func (r *Restarter) RestartApplication(installRoot string) bool {
	launcher := r.launcher
	if !filepath.IsAbs(launcher) {
		launcher = filepath.Join(installRoot, launcher)
	}
	if info, err := os.Stat(launcher); err == nil && info.Mode().IsRegular() {
		err := startDetached(launcherCommand(launcher), installRoot)
		if err == nil {
			log.Printf("Started launcher %q", launcher)
			return true
		}
		log.Printf("Cannot start launcher %q, restarting the executable instead: %s", launcher, err)
	}

	exe, err := internal.GetExecutablePath()
	if err != nil {
		log.Printf("Cannot find the running executable: %s", err)
		return false
	}
	if err := startDetached(exec.Command(exe, r.args...), installRoot); err != nil {
		log.Printf("Cannot restart %q: %s", exe, err)
		return false
	}
	log.Printf("Restarted %q", exe)
	return true
}

func launcherCommand(launcher string) *exec.Cmd {
	switch strings.ToLower(filepath.Ext(launcher)) {
	case ".bat", ".cmd":
		return exec.Command("cmd", "/C", launcher)
	case ".sh":
		return exec.Command("/bin/sh", launcher)
	default:
		return exec.Command(launcher)
	}
}

func startDetached(cmd *exec.Cmd, dir string) error {
	cmd.Dir = dir
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = internal.DetachedProcAttr()
	return startProcess(cmd)
}
