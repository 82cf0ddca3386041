// bench/host.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package bench

import (
	"log/slog"
	"runtime"

	"github.com/mmp/spritebench/log"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo describes the machine a benchmark ran on so that results from
// different systems can be told apart.
type HostInfo struct {
	OS          string
	Platform    string
	Arch        string
	CPUModel    string
	LogicalCPUs int
	TotalMemory uint64
}

// GetHostInfo collects what it can about the system; fields that can't be
// determined are left empty and the failure is logged.
func GetHostInfo(lg *log.Logger) HostInfo {
	hi := HostInfo{OS: runtime.GOOS, Arch: runtime.GOARCH, LogicalCPUs: runtime.NumCPU()}

	if info, err := host.Info(); err != nil {
		lg.Warnf("host info: %v", err)
	} else {
		hi.Platform = info.Platform + " " + info.PlatformVersion
	}

	if ci, err := cpu.Info(); err != nil {
		lg.Warnf("cpu info: %v", err)
	} else if len(ci) > 0 {
		hi.CPUModel = ci[0].ModelName
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		hi.LogicalCPUs = n
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		lg.Warnf("memory info: %v", err)
	} else {
		hi.TotalMemory = vm.Total
	}

	return hi
}

func (hi HostInfo) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("os", hi.OS),
		slog.String("platform", hi.Platform),
		slog.String("arch", hi.Arch),
		slog.String("cpu", hi.CPUModel),
		slog.Int("logical_cpus", hi.LogicalCPUs),
		slog.Uint64("total_memory", hi.TotalMemory))
}
