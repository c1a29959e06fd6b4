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

	"github.com/spf13/cobra"

	"github.com/notargets/thermofem/InputParameters"
	"github.com/notargets/thermofem/mesh"
	"github.com/notargets/thermofem/output"
)

type Model2D struct {
	GridFile string
	ICFile   string
	RunOptions
}

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Two dimensional solver, reads a Quad4 grid file and outputs the temperature history",
	Long: `
Two dimensional solver. The grid file carries the nodes, elements, convective
nodes (*BC) and the global data; an optional YAML input file overrides the
global data.

thermofem 2D -F grid.txt -I input.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		m2d := &Model2D{RunOptions: runOptionsFromViper()}
		if m2d.GridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			panic(err)
		}
		if m2d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		m2d.Graph, _ = cmd.Flags().GetBool("graph")
		m2d.OutputDir, _ = cmd.Flags().GetString("output")
		ip := processInput(m2d)
		ctx, cancel := interruptContext()
		defer cancel()
		rs, err := Run2D(ctx, m2d, ip)
		if rs != nil {
			printSummary(rs)
		}
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func processInput(m2d *Model2D) (ip *InputParameters.InputParameters2D) {
	var (
		err error
	)
	if len(m2d.GridFile) == 0 {
		err := fmt.Errorf("must supply a grid file (-F, --gridFile)")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
SimulationTime 100
SimulationStepTime 50
Conductivity 25
Alfa 300
Tot 1200
InitialTemp 100
Density 7800
SpecificHeat 700
*Node
      1,  0.0, 0.0
      ...
*Element, type=DC2D4
      1,  1,  2,  6,  5
      ...
*BC
1, 2, 3, 4
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if len(m2d.ICFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(m2d.ICFile); err != nil {
			panic(err)
		}
		ip = &InputParameters.InputParameters2D{}
		if err = ip.Parse(data); err != nil {
			panic(err)
		}
		if m2d.Verbose {
			ip.Print()
		}
	}
	return
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("gridFile", "F", "", "Quad4 grid file with *Node, *Element and *BC sections")
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file overriding the grid file global data like:\n\t- SimulationTime\n\t- Alpha")
	TwoDCmd.Flags().StringP("output", "o", ".", "directory for the output files")
	TwoDCmd.Flags().BoolP("graph", "g", false, "display a graph of the min and max temperatures while solving")
}

// Run2D solves the grid file of m2d, ip may be nil
func Run2D(ctx context.Context, m2d *Model2D, ip *InputParameters.InputParameters2D) (rs *output.RunSummary, err error) {
	g, gh, err := mesh.ReadAbaqusGrid(m2d.GridFile)
	if err != nil {
		return
	}
	p, err := ip.Apply(g, gh)
	if err != nil {
		return
	}
	if m2d.Verbose {
		g.PrintStatistics()
	}
	name := strings.TrimSuffix(filepath.Base(m2d.GridFile), filepath.Ext(m2d.GridFile))
	if ip != nil && ip.Title != "" {
		name = strings.ReplaceAll(ip.Title, " ", "_")
	}
	return runSimulation(ctx, name, g, p, m2d.RunOptions)
}
