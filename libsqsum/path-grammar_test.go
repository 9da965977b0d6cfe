package libsqsum

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqsum-systems/go-sqsum/sqsum"
)

func TestParsePathExpr(t *testing.T) {
	p, err := ParsePathExpr("|8->1->15->10|")
	require.NoError(t, err)
	require.Equal(t, "|8->1->15->10|", p.String())

	// Enclosing bars are optional
	p, err = ParsePathExpr("8->1->15")
	require.NoError(t, err)
	require.Equal(t, 3, p.VtxCount())

	p, err = ParsePathExpr("|1|")
	require.NoError(t, err)
	require.True(t, p.IsSolutionFor(1))
}

func TestParsePathExprRejects(t *testing.T) {
	_, err := ParsePathExpr("|1->2|")
	require.ErrorIs(t, err, sqsum.ErrNotSquareSum)

	_, err = ParsePathExpr("|3->1->3|")
	require.ErrorIs(t, err, sqsum.ErrDupeVtx)

	_, err = ParsePathExpr("|0->4|")
	require.ErrorIs(t, err, sqsum.ErrBadVtxID)

	_, err = ParsePathExpr("|99->1|")
	require.ErrorIs(t, err, sqsum.ErrBadVtxID)

	_, err = ParsePathExpr("not a path")
	require.Error(t, err)

	_, err = ParsePathExpr("")
	require.Error(t, err)
}

func TestParsePathExprRoundTrip(t *testing.T) {
	sv := NewSolver(SolverOpts{})

	var step *Step
	for sv.N() < 15 {
		var err error
		step, err = sv.SolveNext(context.Background())
		require.NoError(t, err)
	}

	require.True(t, step.OK())
	for _, sol := range step.Solutions {
		parsed, err := ParsePathExpr(sol.String())
		require.NoError(t, err)
		require.True(t, sol.IsEqual(parsed))
	}
}
