//go:build windows

package internal

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// DetachedProcAttr starts the child without a console in a new process group,
// so it survives the exit of the process which spawned it.
func DetachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
		HideWindow:    true,
	}
}
