package commands

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ChayimFriedman2/chalk/internal/parser"
	"github.com/ChayimFriedman2/chalk/internal/pipeline"
)

// SolveCmd solves goals given on the command line.
var SolveCmd = &cobra.Command{
	Use:   "solve -p program.yaml GOAL...",
	Short: "Solve goals against a program",
	Long: `Solve each GOAL against the program in the given file and print its answer.

Goals of the file itself are ignored; only its program is used.`,
	Example: `  chalk solve -p program.yaml 'Vec<u8>: Foo'
  chalk solve -p program.yaml 'exists<T> { T = u8, (T, T): Copy }'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("program")
		if path == "" {
			return errors.WithHint(errors.New("no program given"), "pass one with -p program.yaml")
		}
		s := current()
		pc := pipeline.Program().Run(pipeline.NewPipelineContext(cmd.Context(), path, s.Solver))
		if err := pc.Err(); err != nil {
			return err
		}
		solver := pc.Solver

		out := cmd.OutOrStdout()
		f, _ := out.(*os.File)
		color := useColor(s.Color, f)
		for _, text := range args {
			goal, err := parser.ParseGoal(text)
			if err != nil {
				return errors.Wrapf(err, "goal %q", text)
			}
			a, err := solver.Solve(cmd.Context(), goal)
			if err != nil {
				return err
			}
			if len(args) > 1 {
				fmt.Fprintf(out, "%s\n    ", text)
			}
			fmt.Fprintln(out, paint(color, answerColor(a.Kind), a.String()))
		}
		return nil
	},
}

func init() {
	SolveCmd.Flags().StringP("program", "p", "", "Program file")
}
