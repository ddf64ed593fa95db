//go:build !linux && !darwin

package server

// hostUptimeSeconds is unavailable on this platform.
func hostUptimeSeconds() uint64 { return 0 }
