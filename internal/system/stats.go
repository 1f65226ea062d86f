package system

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats - снимок нагрузки машины для отчета о производительности.
type HostStats struct {
	CPUs       int
	CPUPercent float64
	MemUsedMB  uint64
	MemTotalMB uint64
	MemPercent float64
	GoHeapMB   uint64
	Goroutines int
}

func CollectHostStats() (HostStats, error) {
	var st HostStats

	counts, err := cpu.Counts(true)
	if err != nil {
		return st, fmt.Errorf("cpu counts: %w", err)
	}
	st.CPUs = counts

	percents, err := cpu.Percent(0, false)
	if err != nil {
		return st, fmt.Errorf("cpu percent: %w", err)
	}
	if len(percents) > 0 {
		st.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return st, fmt.Errorf("virtual memory: %w", err)
	}
	st.MemUsedMB = vm.Used / 1024 / 1024
	st.MemTotalMB = vm.Total / 1024 / 1024
	st.MemPercent = vm.UsedPercent

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	st.GoHeapMB = ms.HeapAlloc / 1024 / 1024
	st.Goroutines = runtime.NumGoroutine()

	return st, nil
}

func (s HostStats) String() string {
	return fmt.Sprintf("cpu %d x %.1f%%, mem %d/%d MB (%.1f%%), heap %d MB, goroutines %d",
		s.CPUs, s.CPUPercent, s.MemUsedMB, s.MemTotalMB, s.MemPercent, s.GoHeapMB, s.Goroutines)
}
