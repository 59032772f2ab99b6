package cmd

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// hostInfo describes the CPU and returns the number of logical cores
func hostInfo() (string, int) {
	model := "unknown cpu"
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		model = fmt.Sprintf("%s @ %.2f GHz", info[0].ModelName, info[0].Mhz/1000)
	}

	cores, err := cpu.Counts(true)
	if err != nil || cores <= 0 {
		cores = runtime.NumCPU()
	}
	return model, cores
}
