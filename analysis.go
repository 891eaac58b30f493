package symdiff

// Symbols returns the set of variable names appearing anywhere in e.
func Symbols(e Expr) map[string]struct{} {
	out := make(map[string]struct{})
	_, _ = Postorder(e, func(n Expr, _ []struct{}, _ struct{}) (struct{}, error) {
		if s, ok := n.(*Symbol); ok {
			out[s.Name()] = struct{}{}
		}
		return struct{}{}, nil
	}, struct{}{})
	return out
}

// Substitute returns e with every occurrence of the named symbol replaced
// by value. Subtrees that contain no occurrence are shared with the input,
// not copied; substituting a name that never appears returns e itself.
// Operator nodes are the only non-terminals this package defines, so custom
// node kinds pass through unchanged.
func Substitute(e Expr, name string, value Expr) Expr {
	out, _ := Postorder(e, func(n Expr, ops []Expr, _ struct{}) (Expr, error) {
		switch t := n.(type) {
		case *Symbol:
			if t.Name() == name {
				return value, nil
			}
			return t, nil
		case *BinaryExpr:
			if ops[0] == t.Left() && ops[1] == t.Right() {
				return t, nil
			}
			return Binary(t.Op(), ops[0], ops[1]), nil
		default:
			return n, nil
		}
	}, struct{}{})
	return out
}
