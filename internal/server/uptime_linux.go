//go:build linux

package server

import "golang.org/x/sys/unix"

// hostUptimeSeconds reads the host uptime from the kernel. It returns 0
// when the syscall fails.
func hostUptimeSeconds() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Uptime)
}
