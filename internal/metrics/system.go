// Package metrics collects a small host snapshot for the health endpoint.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot is the system state reported by /api/health.
type Snapshot struct {
	CPU     CPUStats    `json:"cpu"`
	Memory  MemoryStats `json:"memory"`
	Uptime  int64       `json:"uptime"`
	LoadAvg []float64   `json:"load_avg"`
}

type CPUStats struct {
	UsagePercent float64 `json:"usage_percent"`
	Cores        int     `json:"cores"`
}

type MemoryStats struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"used_percent"`
}

// Collect gathers the snapshot. Each probe runs in its own goroutine and a
// failed probe just leaves its field zeroed; health reporting should not
// fail because one gauge is unavailable.
func Collect(ctx context.Context) (*Snapshot, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	snap := &Snapshot{}
	var wg sync.WaitGroup
	var mu sync.Mutex

	wg.Add(1)
	go func() {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		usage, err := cpu.Percent(200*time.Millisecond, false)
		if err == nil && len(usage) > 0 {
			mu.Lock()
			snap.CPU.UsagePercent = usage[0]
			mu.Unlock()
		}
		cores, err := cpu.Counts(true)
		if err == nil {
			mu.Lock()
			snap.CPU.Cores = cores
			mu.Unlock()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		vmem, err := mem.VirtualMemory()
		if err == nil {
			mu.Lock()
			snap.Memory = MemoryStats{
				Total:       vmem.Total,
				Used:        vmem.Used,
				Available:   vmem.Available,
				UsedPercent: vmem.UsedPercent,
			}
			mu.Unlock()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if ctx.Err() != nil {
			return
		}
		info, err := host.Info()
		if err == nil {
			mu.Lock()
			snap.Uptime = int64(info.Uptime)
			mu.Unlock()
		}
		avg, err := load.Avg()
		if err == nil {
			mu.Lock()
			snap.LoadAvg = []float64{avg.Load1, avg.Load5, avg.Load15}
			mu.Unlock()
		}
	}()

	wg.Wait()
	return snap, nil
}
