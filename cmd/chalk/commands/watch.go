package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ChayimFriedman2/chalk/internal/logger"
)

// WatchCmd re-runs a suite whenever its file changes.
var WatchCmd = &cobra.Command{
	Use:   "watch SUITE",
	Short: "Re-check a suite whenever its file changes",
	Long: `Check the suite once, then watch its file and check it again after every
change. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		f, _ := out.(*os.File)
		path := args[0]
		run := func() {
			s := current()
			err := checkFile(ctx, out, path, s, useColor(s.Color, f))
			if err != nil && !errors.Is(err, ErrCheckFailed) {
				fmt.Fprintf(out, "%s: %v\n", path, err)
			}
		}

		w, err := newSuiteWatcher(path, out, run)
		if err != nil {
			return err
		}
		defer w.Close()

		run()
		return w.Run(ctx)
	},
}

// suiteWatcher calls onChange after writes to one file, debounced.
type suiteWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	out      io.Writer
	onChange func()

	mu             sync.Mutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	// ticks carries debounced changes to Run, which calls onChange itself so
	// runs never overlap and none start once Run has returned.
	ticks chan struct{}
}

func newSuiteWatcher(path string, out io.Writer, onChange func()) (*suiteWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	// Editors often replace the file instead of writing it, so watch the
	// directory and filter by name.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", path)
	}
	return &suiteWatcher{
		path:           abs,
		watcher:        watcher,
		out:            out,
		onChange:       onChange,
		debouncePeriod: 200 * time.Millisecond,
		ticks:          make(chan struct{}, 1),
	}, nil
}

// Run dispatches events until ctx is done.
func (w *suiteWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.ticks:
			fmt.Fprintf(w.out, "\n--- %s changed ---\n", filepath.Base(w.path))
			w.onChange()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Logger.Debugw("suite changed",
					logger.FieldPath, event.Name,
					"op", event.Op.String())
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Logger.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

func (w *suiteWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		select {
		case w.ticks <- struct{}{}:
		default:
			// a run is already pending
		}
	})
}

// Close stops watching.
func (w *suiteWatcher) Close() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
