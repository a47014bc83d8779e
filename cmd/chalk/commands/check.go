package commands

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ChayimFriedman2/chalk/internal/config"
)

// CheckCmd runs suites and compares answers with their expectations.
var CheckCmd = &cobra.Command{
	Use:   "check SUITE|DIR...",
	Short: "Check every goal of one or more suites",
	Long: `Solve every goal of each suite and compare the answer with the goal's
"expect" field. An expectation matches when the answer starts with it.
A directory stands for every suite file directly inside it.

Exits with a non-zero status if any goal fails.`,
	Args: cobra.MinimumNArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		config.IsTestMode = true
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandSuites(args)
		if err != nil {
			return err
		}
		s := current()
		out := cmd.OutOrStdout()
		f, _ := out.(*os.File)
		color := useColor(s.Color, f)

		var firstErr error
		for _, path := range paths {
			err := checkFile(cmd.Context(), out, path, s, color)
			if err == nil {
				continue
			}
			if !errors.Is(err, ErrCheckFailed) {
				cmd.PrintErrf("%s: %v\n", path, err)
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	},
}

// expandSuites replaces each directory argument by the suite files in it.
func expandSuites(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "checking %s", arg)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", arg)
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && config.IsSuiteFile(e.Name()) {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		if len(found) == 0 {
			return nil, errors.Newf("no suite files in %s", arg)
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
