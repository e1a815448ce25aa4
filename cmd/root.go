// Copyright © 2025 The luavet authors

// Package cmd implements the luavet command line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "luavet",
	Short: "luavet — static analysis for Lua source files",
	Long: `luavet reports likely variable-usage mistakes in Lua code, similar to
"go vet" for Go: accesses to undeclared globals, locals redefined within
one scope, and locals that are never used.

Getting started:
  luavet check file.lua        Analyze a single file
  luavet check ./...           Analyze all .lua files under the tree
  luavet check --list          List available checks

Configuration:
  luavet reads .luavet.yaml from the current directory or $HOME. The
  "globals" key lists project-specific predefined names (frameworks,
  test harnesses) that should not be reported as undeclared:

    globals:
      - describe
      - it`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./.luavet.yaml, then $HOME/.luavet.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".luavet")
	}

	viper.SetEnvPrefix("luavet")
	viper.AutomaticEnv()

	// A missing config file is fine; a malformed one is a bad invocation.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "luavet:", err)
			os.Exit(2)
		}
	}
}
