//go:build linux

/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"log"

	perf "github.com/hodgesds/perf-utils"
)

// countSolve runs solve under a hardware instruction counter. The counter
// follows the calling thread only, so element workers running on other threads
// are not included. When the counter cannot be opened solve runs uncounted.
func countSolve(solve func() error) (pc PerfCounts, err error) {
	var ran bool
	pv, perr := perf.CPUInstructions(func() error {
		ran = true
		err = solve()
		return err
	})
	if !ran {
		log.Printf("perf counters unavailable: %v", perr)
		return pc, solve()
	}
	if perr == nil && pv != nil {
		pc.Instructions = pv.Value
		pc.TimeRunning = pv.TimeRunning
		pc.Available = true
	}
	return
}
