// control/platform.go
// Author: momentics <momentics@gmail.com>
//
// Host-level debug probes relevant to pool sizing.

package control

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
)

// RegisterPlatformProbes sets host CPU and memory probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.mem_available", func() any {
		vm, err := mem.VirtualMemory()
		if err != nil {
			return err.Error()
		}
		return vm.Available
	})
}
