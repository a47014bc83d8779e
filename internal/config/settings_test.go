package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := Default()
	assert.Equal(t, DefaultMaxDepth, s.Solver.MaxDepth)
	assert.Equal(t, DefaultMaxIterations, s.Solver.MaxIterations)
	assert.Equal(t, ColorAuto, s.Color)
	assert.Equal(t, "warn", s.Log.Level)
}

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, s Settings)
		wantErr bool
	}{
		{
			name:    "toml overrides",
			file:    "chalk.toml",
			content: "color = \"never\"\n[solver]\nmax_depth = 8\n",
			check: func(t *testing.T, s Settings) {
				assert.Equal(t, 8, s.Solver.MaxDepth)
				assert.Equal(t, DefaultMaxIterations, s.Solver.MaxIterations)
				assert.Equal(t, ColorNever, s.Color)
			},
		},
		{
			name:    "yaml overrides",
			file:    "chalk.yaml",
			content: "solver:\n  max_iterations: 3\nlog:\n  json: true\n",
			check: func(t *testing.T, s Settings) {
				assert.Equal(t, 3, s.Solver.MaxIterations)
				assert.True(t, s.Log.JSON)
			},
		},
		{
			name:    "non-positive depth",
			file:    "bad.toml",
			content: "[solver]\nmax_depth = 0\n",
			wantErr: true,
		},
		{
			name:    "unknown color",
			file:    "bad.yaml",
			content: "color: sometimes\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			s, err := LoadSettings(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSettings)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("CHALK_SOLVER_MAX_DEPTH", "5")
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, 5, s.Solver.MaxDepth)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestIsScalar(t *testing.T) {
	assert.True(t, IsScalar("u8"))
	assert.True(t, IsScalar("bool"))
	assert.False(t, IsScalar("S"))
	assert.False(t, IsScalar("str"))
}

func TestIsSuiteFile(t *testing.T) {
	assert.True(t, IsSuiteFile("tuples.yaml"))
	assert.True(t, IsSuiteFile("dir/tuples.yml"))
	assert.False(t, IsSuiteFile("settings.toml"))
}
