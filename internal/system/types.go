package system

import "time"

// HostInfo contains system identification information
type HostInfo struct {
	Hostname        string    `json:"hostname"`
	OS              string    `json:"os"`
	Platform        string    `json:"platform"`
	PlatformVersion string    `json:"platform_version"`
	KernelArch      string    `json:"kernel_arch"`
	HostID          string    `json:"host_id"`
	Uptime          uint64    `json:"uptime"`
	UptimeHuman     string    `json:"uptime_human"`
	BootTime        time.Time `json:"boot_time"`
}
