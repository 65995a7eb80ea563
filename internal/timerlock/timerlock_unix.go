//go:build !windows

package timerlock

import "syscall"

// alive sends signal 0, which checks existence without delivering anything.
func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || err == syscall.EPERM
}
