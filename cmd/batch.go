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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/notargets/thermofem/output"
	"github.com/notargets/thermofem/types"
)

type Batch struct {
	ConfigFiles []string // An empty list runs the defaults
	Patterns    []string // An empty list uses the pattern of each config
	Jobs        int
	RunOptions
}

type batchCase struct {
	config, pattern, name string
}

// BatchCmd represents the batch command
var BatchCmd = &cobra.Command{
	Use:   "batch [config.toml ...]",
	Short: "Runs the 3D stack for several configs and paste patterns concurrently",
	Long: `
Runs every combination of config file and paste pattern, each into its own
output directory, and reports all failures at the end.

thermofem batch a.toml b.toml --patterns full,dot,x_shape,two_lines -j 2`,
	Run: func(cmd *cobra.Command, args []string) {
		b := &Batch{ConfigFiles: args, RunOptions: runOptionsFromViper()}
		b.Patterns, _ = cmd.Flags().GetStringSlice("patterns")
		b.Jobs, _ = cmd.Flags().GetInt("jobs")
		b.OutputDir, _ = cmd.Flags().GetString("output")
		ctx, cancel := interruptContext()
		defer cancel()
		summaries, err := b.Run(ctx)
		for _, rs := range summaries {
			printSummary(rs)
		}
		if err != nil {
			for _, e := range multierr.Errors(err) {
				fmt.Printf("error: %s\n", e.Error())
			}
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(BatchCmd)
	var names []string
	for _, pp := range []types.PastePattern{types.PasteFull, types.PasteDot, types.PasteXShape, types.PasteTwoLines} {
		names = append(names, strings.ToLower(pp.String()))
	}
	BatchCmd.Flags().StringSlice("patterns", nil, "paste patterns to run for every config: "+strings.Join(names, ", "))
	BatchCmd.Flags().IntP("jobs", "j", 1, "number of runs solved at the same time")
	BatchCmd.Flags().StringP("output", "o", ".", "parent directory of the per run output directories")
}

func (b *Batch) cases() (cases []batchCase) {
	configs := b.ConfigFiles
	if len(configs) == 0 {
		configs = []string{""}
	}
	patterns := b.Patterns
	if len(patterns) == 0 {
		patterns = []string{""}
	}
	for _, cf := range configs {
		base := "default"
		if cf != "" {
			base = strings.TrimSuffix(filepath.Base(cf), filepath.Ext(cf))
		}
		for _, pat := range patterns {
			name := base
			if pat != "" {
				name += "_" + strings.ToLower(pat)
			}
			cases = append(cases, batchCase{config: cf, pattern: pat, name: name})
		}
	}
	return
}

// Run solves all cases with at most Jobs running at once. Summaries of the
// successful runs are returned in case order, failures are combined into err.
func (b *Batch) Run(ctx context.Context) (summaries []*output.RunSummary, err error) {
	var (
		cases = b.cases()
		sums  = make([]*output.RunSummary, len(cases))
		errs  = make([]error, len(cases))
		jobs  = b.Jobs
		wg    sync.WaitGroup
	)
	if jobs < 1 {
		jobs = 1
	}
	sem := make(chan struct{}, jobs)
	for i, bc := range cases {
		wg.Add(1)
		go func(i int, bc batchCase) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			opts := b.RunOptions
			opts.OutputDir = filepath.Join(b.OutputDir, bc.name)
			opts.Graph = false
			m3d := &Model3D{ConfigFile: bc.config, Pattern: bc.pattern, Name: bc.name, RunOptions: opts}
			if sums[i], errs[i] = Run3D(ctx, m3d); errs[i] != nil {
				errs[i] = fmt.Errorf("%s: %w", bc.name, errs[i])
			}
		}(i, bc)
	}
	wg.Wait()
	for i := range cases {
		err = multierr.Append(err, errs[i])
		if errs[i] == nil && sums[i] != nil {
			summaries = append(summaries, sums[i])
		}
	}
	return
}
