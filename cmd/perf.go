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

import "fmt"

type PerfCounts struct {
	Instructions uint64
	TimeRunning  uint64 // ns the counter was scheduled
	Available    bool
}

// Print reports the counts per unit of work, usually element*step
func (pc PerfCounts) Print(work int) {
	if !pc.Available {
		fmt.Printf("Hardware counters: not available\n")
		return
	}
	fmt.Printf("Hardware counters: %d instructions in %8.5f s", pc.Instructions, float64(pc.TimeRunning)/1.e9)
	if work > 0 {
		fmt.Printf(", %8.1f instructions/(element*step)", float64(pc.Instructions)/float64(work))
	}
	fmt.Printf("\n")
}
