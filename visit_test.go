package symdiff_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	symdiff "github.com/exprkit/symdiff"
)

// countVisits runs Postorder with a combine that only counts calls.
func countVisits(t *testing.T, root symdiff.Expr) int {
	t.Helper()
	n := 0
	_, err := symdiff.Postorder(root, func(symdiff.Expr, []struct{}, struct{}) (struct{}, error) {
		n++
		return struct{}{}, nil
	}, struct{}{})
	require.NoError(t, err)
	return n
}

func TestPostorder_SharedNodeVisitedOnce(t *testing.T) {
	x := symdiff.Sym("x")
	shared := symdiff.Add(x, 1)
	root := symdiff.Mul(shared, shared)

	// Distinct instances: x, 1, shared, root.
	require.Equal(t, 4, countVisits(t, root))
}

func TestPostorder_EqualButDistinctNodesVisitedSeparately(t *testing.T) {
	root := symdiff.Add(symdiff.Num(2), symdiff.Num(2))

	// Two structurally equal Number(2) instances are not collapsed.
	require.Equal(t, 3, countVisits(t, root))
}

func TestPostorder_SingleTerminal(t *testing.T) {
	require.Equal(t, 1, countVisits(t, symdiff.Sym("x")))
}

func TestPostorder_OperandResultsLeftToRight(t *testing.T) {
	a, b := symdiff.Sym("a"), symdiff.Sym("b")
	root := symdiff.Sub(a, b)

	got, err := symdiff.Postorder(root, func(n symdiff.Expr, ops []string, _ struct{}) (string, error) {
		if len(ops) == 0 {
			return n.String(), nil
		}
		return "[" + ops[0] + "|" + ops[1] + "]", nil
	}, struct{}{})
	require.NoError(t, err)
	require.Equal(t, "[a|b]", got)
}

func TestPostorder_ContextPassedThrough(t *testing.T) {
	root := symdiff.Add(symdiff.Sym("x"), 1)
	calls := 0
	_, err := symdiff.Postorder(root, func(_ symdiff.Expr, _ []int, ctx string) (int, error) {
		calls++
		require.Equal(t, "aux", ctx)
		return 0, nil
	}, "aux")
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestPostorder_NumericFold(t *testing.T) {
	// A second combine besides differentiation: fold constants to a value.
	root := symdiff.Mul(symdiff.Add(symdiff.Num(2), symdiff.Num(3)), symdiff.Num(4))

	got, err := symdiff.Postorder(root, func(n symdiff.Expr, ops []float64, _ struct{}) (float64, error) {
		switch t := n.(type) {
		case *symdiff.Number:
			return t.Value(), nil
		case *symdiff.BinaryExpr:
			switch t.Op() {
			case symdiff.OpAdd:
				return ops[0] + ops[1], nil
			case symdiff.OpMul:
				return ops[0] * ops[1], nil
			}
		}
		return 0, errors.Newf("cannot fold %q", n.Kind())
	}, struct{}{})
	require.NoError(t, err)
	require.Equal(t, 20.0, got)
}

func TestPostorder_ErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	root := symdiff.Add(symdiff.Sym("x"), symdiff.Sym("y"))

	_, err := symdiff.Postorder(root, func(n symdiff.Expr, _ []int, _ struct{}) (int, error) {
		if s, ok := n.(*symdiff.Symbol); ok && s.Name() == "y" {
			return 0, boom
		}
		return 0, nil
	}, struct{}{})
	require.ErrorIs(t, err, boom)
}

func TestPostorder_DeepChainNoStackOverflow(t *testing.T) {
	// Left-leaning chain far deeper than any call stack would allow a
	// naive recursion to go.
	const depth = 200000
	e := symdiff.Expr(symdiff.Sym("x"))
	for i := 0; i < depth; i++ {
		e = symdiff.Add(e, 1)
	}
	require.Equal(t, 2*depth+1, countVisits(t, e))
}

func TestPostorder_DiamondDAG(t *testing.T) {
	// root -> (s+s), s -> (x*x): every instance counted exactly once.
	x := symdiff.Sym("x")
	s := symdiff.Mul(x, x)
	root := symdiff.Add(s, s)
	require.Equal(t, 3, countVisits(t, root))
}
