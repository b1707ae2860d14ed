package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var verboseFlag bool

var colorFlag string

const rootLongDescription = `unused removes block-scoped C and C++ variable declarations that are never
referenced. Files are taken from a compilation database (compile_commands.json)
and rewritten in place, or under a separate output directory.`

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "unused",
		Short:         "Remove unused local variables from C/C++ sources",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&colorFlag, colorFlagName, viper.GetString(colorConfigKey), "colorize output: auto, always or never")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(colorFlagName), colorConfigKey)
	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
