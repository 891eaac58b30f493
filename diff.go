package symdiff

import "github.com/cockroachdb/errors"

// ErrNoDiffRule marks differentiation of a node kind with no registered
// rule.
var ErrNoDiffRule = errors.New("no differentiation rule for node kind")

// A DiffRule computes the derivative of one node kind. node is the original
// node, d holds the derivatives of its operands in left-to-right order, and
// wrt is the name of the variable being differentiated against. Rules that
// need un-differentiated operands (product, quotient, power) reach them
// through node.
type DiffRule func(node Expr, d []Expr, wrt string) (Expr, error)

var diffRules = map[string]DiffRule{}

// RegisterDiffRule installs the rule for a node kind, replacing any
// previous one. A nil rule removes the registration. Node kinds defined
// outside this package register here.
func RegisterDiffRule(kind string, rule DiffRule) {
	if rule == nil {
		delete(diffRules, kind)
		return
	}
	diffRules[kind] = rule
}

func init() {
	RegisterDiffRule("number", diffNumber)
	RegisterDiffRule("symbol", diffSymbol)
	RegisterDiffRule("add", diffAdd)
	RegisterDiffRule("sub", diffSub)
	RegisterDiffRule("mul", diffMul)
	RegisterDiffRule("div", diffDiv)
	RegisterDiffRule("pow", diffPow)
}

// Differentiate returns the first derivative of e with respect to the
// variable named wrt. The result is a fresh tree built from the rule table
// with no simplification, so terms like 1 * x + 0 appear verbatim. A node
// kind without a registered rule fails with ErrNoDiffRule.
func Differentiate(e Expr, wrt string) (Expr, error) {
	return Postorder(e, applyDiffRule, wrt)
}

func applyDiffRule(node Expr, d []Expr, wrt string) (Expr, error) {
	rule, ok := diffRules[node.Kind()]
	if !ok {
		return nil, errors.Wrapf(ErrNoDiffRule, "%q", node.Kind())
	}
	return rule(node, d, wrt)
}

func diffNumber(Expr, []Expr, string) (Expr, error) { return Num(0), nil }

func diffSymbol(node Expr, _ []Expr, wrt string) (Expr, error) {
	if node.(*Symbol).Name() == wrt {
		return Num(1), nil
	}
	return Num(0), nil
}

func diffAdd(_ Expr, d []Expr, _ string) (Expr, error) { return Add(d[0], d[1]), nil }

func diffSub(_ Expr, d []Expr, _ string) (Expr, error) { return Sub(d[0], d[1]), nil }

// Product rule: (ab)' = a'b + b'a.
func diffMul(node Expr, d []Expr, _ string) (Expr, error) {
	b := node.(*BinaryExpr)
	return Add(Mul(d[0], b.Right()), Mul(d[1], b.Left())), nil
}

// Quotient rule: (a/b)' = (a'b - ab') / b^2.
func diffDiv(node Expr, d []Expr, _ string) (Expr, error) {
	b := node.(*BinaryExpr)
	return Div(
		Sub(Mul(d[0], b.Right()), Mul(b.Left(), d[1])),
		Pow(b.Right(), 2),
	), nil
}

// Power rule: (a^b)' = b * a^(b-1) * a'. The exponent is assumed not to
// depend on wrt; if it does, the result is algebraically wrong rather than
// an error. General a^b would need ln, which has no node kind here.
func diffPow(node Expr, d []Expr, _ string) (Expr, error) {
	b := node.(*BinaryExpr)
	return Mul(Mul(b.Right(), Pow(b.Left(), Sub(b.Right(), 1))), d[0]), nil
}
