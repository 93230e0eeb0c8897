// Package sysmetrics samples host CPU and memory usage for the admin
// surface's /health endpoint. Grounded on the `github.com/shirou/gopsutil/v3`
// import already present in runtime/go.mod — no call site for it was found
// in the read portion of runtime/, so this gives it the home the teacher's
// own dependency graph implies but never finished wiring (see DESIGN.md).
package sysmetrics

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Sample is one point-in-time reading of host resource usage.
type Sample struct {
	CPUPercent    float64 `json:"cpuPercent"`
	MemUsedBytes  uint64  `json:"memUsedBytes"`
	MemTotalBytes uint64  `json:"memTotalBytes"`
	MemPercent    float64 `json:"memPercent"`
}

// Read takes a near-instantaneous CPU percent reading (0-duration window)
// and a virtual memory snapshot. Errors from either are non-fatal — the
// admin surface degrades to zero values rather than failing /health.
func Read() Sample {
	var s Sample

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		s.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		s.MemUsedBytes = vm.Used
		s.MemTotalBytes = vm.Total
		s.MemPercent = vm.UsedPercent
	}

	return s
}
