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
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "thermofem",
	Short: "Transient heat conduction in chip stacks using isoparametric finite elements",
	Long: `
Solves the transient heat equation with backward Euler time stepping on Quad4
and Hex8 grids. Grids come from a 2D grid file or from the layered 3D chip stack
generator (silicon, IHS, thermal paste and a water cooled heatsink).

thermofem 3D stack.toml
thermofem 2D -F grid.txt -I input.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch mode := viper.GetString("profile"); mode {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		default:
			return fmt.Errorf("unknown profile mode %q, use cpu or mem", mode)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.thermofem.yaml)")
	rootCmd.PersistentFlags().IntP("parallel", "p", 0, "number of element workers during assembly, 0 uses all CPUs")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print the step table while solving")
	rootCmd.PersistentFlags().String("profile", "", "write a pprof profile of the run: cpu or mem")
	rootCmd.PersistentFlags().Bool("perfCounters", false, "report hardware instruction and cycle counts of the solve (linux only)")
	for _, name := range []string{"parallel", "verbose", "profile", "perfCounters"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".thermofem" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".thermofem")
	}

	viper.SetEnvPrefix("thermofem")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// runOptionsFromViper collects the persistent flags, which may also come from
// the config file or THERMOFEM_* environment variables
func runOptionsFromViper() RunOptions {
	return RunOptions{
		Parallel:     viper.GetInt("parallel"),
		Verbose:      viper.GetBool("verbose"),
		PerfCounters: viper.GetBool("perfCounters"),
	}
}
