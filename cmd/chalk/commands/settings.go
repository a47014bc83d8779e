// Package commands holds the chalk subcommands.
package commands

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/ChayimFriedman2/chalk/internal/config"
	"github.com/ChayimFriedman2/chalk/internal/solve"
)

var (
	settingsMu sync.RWMutex
	settings   = config.Default()
)

// Configure installs the settings every command runs with.
func Configure(s config.Settings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = s
}

func current() config.Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// ANSI colors per answer kind
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// useColor resolves the color mode against the file being written to.
func useColor(mode string, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + colorReset
}

func answerColor(k solve.AnswerKind) string {
	switch k {
	case solve.Unique:
		return colorGreen
	case solve.Ambiguous:
		return colorYellow
	case solve.NoSolution:
		return colorRed
	default:
		return colorGray
	}
}
