//go:build darwin

package server

import (
	"time"

	"golang.org/x/sys/unix"
)

// hostUptimeSeconds derives the host uptime from the kernel boot time. It
// returns 0 when the sysctl fails.
func hostUptimeSeconds() uint64 {
	tv, err := unix.SysctlTimeval("kern.boottime")
	if err != nil {
		return 0
	}
	boot := time.Unix(tv.Sec, int64(tv.Usec)*1000)
	up := time.Since(boot)
	if up < 0 {
		return 0
	}
	return uint64(up.Seconds())
}
