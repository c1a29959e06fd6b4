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
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/thermofem/InputParameters"
	"github.com/notargets/thermofem/mesh"
	"github.com/notargets/thermofem/output"
)

type Model3D struct {
	ConfigFile string
	Pattern    string
	Name       string
	RunOptions
}

// ThreeDCmd represents the 3D command
var ThreeDCmd = &cobra.Command{
	Use:   "3D [config.toml]",
	Short: "Heating of the layered chip stack, configured by a TOML or YAML file",
	Long: `
Generates the hexahedral grid of the chip stack (silicon, IHS, thermal paste and
heatsink layers) and solves the transient heating of the die. Without a config
file the built in defaults are used.

thermofem 3D stack.toml --pattern dot -o results`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m3d := &Model3D{RunOptions: runOptionsFromViper()}
		if len(args) == 1 {
			m3d.ConfigFile = args[0]
		}
		m3d.Pattern, _ = cmd.Flags().GetString("pattern")
		m3d.Name, _ = cmd.Flags().GetString("name")
		m3d.OutputDir, _ = cmd.Flags().GetString("output")
		m3d.Graph, _ = cmd.Flags().GetBool("graph")
		ctx, cancel := interruptContext()
		defer cancel()
		rs, err := Run3D(ctx, m3d)
		if rs != nil {
			printSummary(rs)
		}
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ThreeDCmd)
	ThreeDCmd.Flags().String("pattern", "", "paste pattern overriding the config file: full, dot, x_shape or two_lines")
	ThreeDCmd.Flags().StringP("name", "n", "", "base name of the output files, defaults to stack_<pattern>")
	ThreeDCmd.Flags().StringP("output", "o", ".", "directory for the output files")
	ThreeDCmd.Flags().BoolP("graph", "g", false, "display a graph of the min and max temperatures while solving")
}

func loadConfig3D(fileName string) (*InputParameters.Config3D, error) {
	if fileName == "" {
		return InputParameters.DefaultConfig3D(), nil
	}
	return InputParameters.LoadConfig3D(fileName)
}

func Run3D(ctx context.Context, m3d *Model3D) (rs *output.RunSummary, err error) {
	var c *InputParameters.Config3D
	if c, err = loadConfig3D(m3d.ConfigFile); err != nil {
		return
	}
	if m3d.Pattern != "" {
		c.Paste.Pattern = m3d.Pattern
	}
	return runConfig3D(ctx, c, m3d.Name, m3d.RunOptions)
}

func runConfig3D(ctx context.Context, c *InputParameters.Config3D, name string,
	opts RunOptions) (rs *output.RunSummary, err error) {
	ss := c.ToStackSpec()
	p, err := c.ToParameters()
	if err != nil {
		return
	}
	g, si, err := mesh.GenerateStack(ss)
	if err != nil {
		return
	}
	if opts.Verbose {
		c.Print()
		si.Print(ss)
		g.PrintStatistics()
	}
	if name == "" {
		name = "stack_" + strings.ToLower(ss.Pattern.String())
	}
	return runSimulation(ctx, name, g, p, opts)
}
