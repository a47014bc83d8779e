package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		jsonOutput bool
		wantErr    bool
	}{
		{name: "JSON output mode", level: "info", jsonOutput: true},
		{name: "Console output mode", level: "debug"},
		{name: "unknown level", level: "chatty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Logger
			t.Cleanup(func() { Logger = prev; JSONOutput = false })

			err := Initialize(tt.level, tt.jsonOutput)
			if tt.wantErr {
				require.Error(t, err)
				assert.Same(t, prev, Logger, "a failed Initialize keeps the previous logger")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
		})
	}
}

func TestNopByDefault(t *testing.T) {
	// logging before Initialize must not panic
	assert.NotPanics(t, func() { Logger.Debugw("before init", FieldGoal, "u8: Copy") })
}
