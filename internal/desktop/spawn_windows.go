//go:build windows

package desktop

import "syscall"

func detachedAttr() *syscall.SysProcAttr {
	return nil
}

func groupOf(int) int {
	return 0
}
