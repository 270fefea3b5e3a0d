//go:build !windows

package internal

import (
	"syscall"
)

// DetachedProcAttr starts the child in its own session,
// so it survives the exit of the process which spawned it.
func DetachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
