package utils

import (
	"fmt"
	"math"
	"runtime"

	"github.com/exascience/pargo/parallel"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// FirstNonFinite returns the index of the first NaN or Inf in v, or -1
func FirstNonFinite(v []float64) int {
	for i, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return i
		}
	}
	return -1
}

// MinMax reduces v in parallel. Empty input returns (+Inf, -Inf).
func MinMax(v []float64) (min, max float64) {
	if len(v) < parallelRowThreshold {
		min, max = math.Inf(1), math.Inf(-1)
		for _, f := range v {
			min = math.Min(min, f)
			max = math.Max(max, f)
		}
		return
	}
	min = parallel.RangeReduceFloat64(0, len(v), 0,
		func(low, high int) (result float64) {
			result = math.Inf(1)
			for _, f := range v[low:high] {
				result = math.Min(result, f)
			}
			return
		},
		math.Min,
	)
	max = parallel.RangeReduceFloat64(0, len(v), 0,
		func(low, high int) (result float64) {
			result = math.Inf(-1)
			for _, f := range v[low:high] {
				result = math.Max(result, f)
			}
			return
		},
		math.Max,
	)
	return
}
