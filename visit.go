package symdiff

// A CombineFunc computes a node's result from the already-computed results
// of its operands, given in left-to-right order. ctx is the auxiliary value
// handed to Postorder, passed through unchanged to every call.
type CombineFunc[R, C any] func(node Expr, operands []R, ctx C) (R, error)

// Postorder evaluates the DAG rooted at root bottom-up and returns the
// result computed for root. combine runs exactly once per distinct node
// instance: results are memoized by node identity, so a node shared by
// several parents is combined once and its result reused, while two
// structurally equal but distinct nodes are combined separately.
//
// The traversal is iterative; depth is bounded by available memory, not the
// call stack, so operator chains of arbitrary length are fine. Cycles are
// not detected: a cyclic graph is outside the input contract and will not
// terminate.
func Postorder[R, C any](root Expr, combine CombineFunc[R, C], ctx C) (R, error) {
	memo := make(map[Expr]R)
	stack := []Expr{root}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, done := memo[e]; done {
			// Pushed again by a later parent before its first visit
			// completed the node.
			continue
		}

		ops := e.Operands()
		var pending []Expr
		for _, o := range ops {
			if _, done := memo[o]; !done {
				pending = append(pending, o)
			}
		}
		if len(pending) > 0 {
			// Operands first; e is revisited once they are memoized.
			stack = append(stack, e)
			stack = append(stack, pending...)
			continue
		}

		results := make([]R, len(ops))
		for i, o := range ops {
			results[i] = memo[o]
		}
		r, err := combine(e, results, ctx)
		if err != nil {
			var zero R
			return zero, err
		}
		memo[e] = r
	}
	return memo[root], nil
}
