package solve

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChayimFriedman2/chalk/internal/loader"
	"github.com/ChayimFriedman2/chalk/internal/rules"
)

// TestConformance runs every suite under the loader's testdata.
func TestConformance(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "loader", "testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			suite, err := loader.LoadFile(path)
			require.NoError(t, err)
			db, err := rules.Lower(suite.Program)
			require.NoError(t, err)
			s := New(db)

			for _, gc := range suite.Goals {
				t.Run(gc.Name, func(t *testing.T) {
					a, err := s.Solve(context.Background(), gc.Goal)
					require.NoError(t, err)
					assert.True(t, a.Matches(gc.Expect), "goal %s\n got: %s\nwant: %s", gc.Text, a, gc.Expect)
				})
			}
		})
	}
}
