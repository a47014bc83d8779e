package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChayimFriedman2/chalk/cmd/chalk/commands"
	"github.com/ChayimFriedman2/chalk/internal/config"
	"github.com/ChayimFriedman2/chalk/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "chalk",
	Short: "chalk - trait-bound solver",
	Long: `chalk - decide whether trait-bound goals hold for a program.

A program declares structs, traits and impls in YAML. Goals are written in a
small term syntax, e.g. "exists<T> { Vec<T>: Copy }".

Available commands:
  solve   - Solve a single goal against a program
  check   - Run every goal of a suite and compare with its expectation
  watch   - Re-run a suite whenever its file changes
  version - Show version information

Examples:
  chalk solve -p program.yaml 'forall<T> { if (T: Copy) { (T, u8): Copy } }'
  chalk check testdata/tuples.yaml
  chalk watch testdata/tuples.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		settings, err := config.LoadSettings(path)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetCount("verbose"); v > 0 {
			settings.Log.Level = verbosityLevel(v)
		}
		if err := logger.Initialize(settings.Log.Level, settings.Log.JSON); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		commands.Configure(settings)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func verbosityLevel(v int) string {
	switch v {
	case 1:
		return "info"
	default:
		return "debug"
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Settings file (yaml, toml or json)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")

	rootCmd.AddCommand(commands.SolveCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
