package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/ChayimFriedman2/chalk/internal/config"
	"github.com/ChayimFriedman2/chalk/internal/logger"
	"github.com/ChayimFriedman2/chalk/internal/pipeline"
)

// ErrCheckFailed is returned when a goal's answer does not match its
// expectation.
var ErrCheckFailed = errors.New("check failed")

// report prints one line per goal and a summary, and returns the number of
// failed goals.
func report(w io.Writer, path string, results []pipeline.Result, color bool) int {
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "%s %s\n    error: %v\n", paint(color, colorRed, "FAIL"), r.Case.Name, r.Err)
		case !r.Passed():
			failed++
			fmt.Fprintf(w, "%s %s\n    goal: %s\n     got: %s\n    want: %s\n",
				paint(color, colorRed, "FAIL"), r.Case.Name, r.Case.Text,
				paint(color, answerColor(r.Answer.Kind), r.Answer.String()), r.Case.Expect)
		default:
			fmt.Fprintf(w, "%s   %s\n", paint(color, colorGreen, "ok"), r.Case.Name)
		}
	}

	summary := fmt.Sprintf("%s: %d passed, %d failed", path, len(results)-failed, failed)
	if failed > 0 {
		summary = paint(color, colorRed, summary)
	}
	fmt.Fprintln(w, summary)
	return failed
}

// checkFile runs one suite file and reports on it.
func checkFile(ctx context.Context, w io.Writer, path string, s config.Settings, color bool) error {
	pc := pipeline.Check().Run(pipeline.NewPipelineContext(ctx, path, s.Solver))
	if err := pc.Err(); err != nil {
		return err
	}
	failed := report(w, path, pc.Results, color)
	logger.Logger.Infow("suite checked",
		logger.FieldPath, path,
		logger.FieldCount, len(pc.Results),
		logger.FieldFailed, failed)
	if failed > 0 {
		return errors.Wrapf(ErrCheckFailed, "%d of %d goals in %s", failed, len(pc.Results), path)
	}
	return nil
}
