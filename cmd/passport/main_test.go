package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

// TestAppOptionsGraph checks the dependency graph without instantiating
// anything: every provider's inputs must be satisfiable and no provider may
// dangle unused behind an invoke.
func TestAppOptionsGraph(t *testing.T) {
	t.Parallel()

	require.NoError(t, fx.ValidateApp(appOptions()))
}
