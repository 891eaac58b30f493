// Package symdiff builds immutable arithmetic expression trees and computes
// symbolic derivatives over them.
//
// Design goals:
//   - Immutable nodes, freely shareable between parents (trees may be DAGs)
//   - Natural construction sugar: Add(Mul(3, x), 1) accepts raw Go numbers
//   - Minimal-but-correct parenthesization when rendering
//   - A generic, identity-memoized, iterative post-order visitor usable for
//     any bottom-up computation over a tree
//   - An open differentiation rule registry: new node kinds bring their own
//     rule instead of editing this package
//
// Derivatives are returned exactly as the rules produce them: no constant
// folding, no dropping of *1 or +0 terms.
package symdiff

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// ============================================================
// Core interface
// ============================================================

// Expr is a node in an arithmetic expression tree. Implementations are
// always pointer types, so comparing two Expr values compares node identity;
// the traversal memo in Postorder relies on that. Nodes are never mutated
// after construction, which is what makes sharing one node between several
// parents safe.
type Expr interface {
	// Kind is the node's type tag ("number", "symbol", "add", ...). The
	// differentiation registry dispatches on it.
	Kind() string

	// Operands returns the node's children in left-to-right order.
	// Terminals return nil.
	Operands() []Expr

	// Precedence is the rendering rank: lower binds tighter. Terminals are
	// rank 0 and never parenthesized.
	Precedence() int

	// String renders the expression with minimal parenthesization.
	String() string

	// GoString renders the unambiguous literal form, usable with %#v,
	// e.g. Add(Symbol("x"), Number(2)).
	GoString() string
}

// ErrInvalidOperand marks attempts to build a constant, or promote a sugar
// operand, from a value that is neither an Expr nor a Go number.
var ErrInvalidOperand = errors.New("operand is neither an Expr nor a number")

// ============================================================
// Terminals
// ============================================================

// Number is a constant leaf.
type Number struct{ val float64 }

// Num constructs a constant.
func Num(v float64) *Number { return &Number{val: v} }

// NumberOf constructs a constant from any Go numeric value. Any other
// payload fails with ErrInvalidOperand.
func NumberOf(v any) (*Number, error) {
	switch t := v.(type) {
	case float64:
		return Num(t), nil
	case float32:
		return Num(float64(t)), nil
	case int:
		return Num(float64(t)), nil
	case int8:
		return Num(float64(t)), nil
	case int16:
		return Num(float64(t)), nil
	case int32:
		return Num(float64(t)), nil
	case int64:
		return Num(float64(t)), nil
	case uint:
		return Num(float64(t)), nil
	case uint8:
		return Num(float64(t)), nil
	case uint16:
		return Num(float64(t)), nil
	case uint32:
		return Num(float64(t)), nil
	case uint64:
		return Num(float64(t)), nil
	}
	return nil, errors.Wrapf(ErrInvalidOperand, "got %T", v)
}

func (n *Number) Kind() string     { return "number" }
func (n *Number) Operands() []Expr { return nil }
func (n *Number) Precedence() int  { return 0 }
func (n *Number) Value() float64   { return n.val }
func (n *Number) String() string   { return strconv.FormatFloat(n.val, 'g', -1, 64) }
func (n *Number) GoString() string { return "Number(" + n.String() + ")" }

// Symbol is a named variable leaf. The name is opaque: it is compared
// against the differentiation target and the substitution target, and never
// interpreted numerically.
type Symbol struct{ name string }

// Sym constructs a variable.
func Sym(name string) *Symbol { return &Symbol{name: name} }

func (s *Symbol) Kind() string     { return "symbol" }
func (s *Symbol) Operands() []Expr { return nil }
func (s *Symbol) Precedence() int  { return 0 }
func (s *Symbol) Name() string     { return s.name }
func (s *Symbol) String() string   { return s.name }
func (s *Symbol) GoString() string { return "Symbol(" + strconv.Quote(s.name) + ")" }

// ============================================================
// Operator nodes
// ============================================================

// Operator tags a BinaryExpr with its display symbol and precedence rank.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

var opTable = [...]struct {
	kind   string
	symbol string
	rank   int
	goName string
}{
	OpAdd: {kind: "add", symbol: "+", rank: 3, goName: "Add"},
	OpSub: {kind: "sub", symbol: "-", rank: 3, goName: "Sub"},
	OpMul: {kind: "mul", symbol: "*", rank: 2, goName: "Mul"},
	OpDiv: {kind: "div", symbol: "/", rank: 2, goName: "Div"},
	OpPow: {kind: "pow", symbol: "^", rank: 1, goName: "Pow"},
}

func (op Operator) valid() bool { return op >= 0 && int(op) < len(opTable) }

func (op Operator) kind() string {
	if op.valid() {
		return opTable[op].kind
	}
	return "op" + strconv.Itoa(int(op))
}

// String returns the operator's display symbol.
func (op Operator) String() string {
	if op.valid() {
		return opTable[op].symbol
	}
	return "op" + strconv.Itoa(int(op))
}

func operatorForKind(kind string) (Operator, bool) {
	for i := range opTable {
		if opTable[i].kind == kind {
			return Operator(i), true
		}
	}
	return 0, false
}

// BinaryExpr is an operator node: two ordered operands joined by an
// Operator. Operand order is significant; Sub, Div and Pow are
// non-commutative.
type BinaryExpr struct {
	op          Operator
	left, right Expr
}

// Binary builds an operator node. Operands may be Exprs or raw Go numbers;
// raw numbers are promoted to Number first. A non-numeric non-Expr operand
// panics with an ErrInvalidOperand-marked error.
func Binary(op Operator, a, b any) *BinaryExpr {
	return &BinaryExpr{op: op, left: promote(a), right: promote(b)}
}

// Add returns a + b.
func Add(a, b any) Expr { return Binary(OpAdd, a, b) }

// Sub returns a - b.
func Sub(a, b any) Expr { return Binary(OpSub, a, b) }

// Mul returns a * b.
func Mul(a, b any) Expr { return Binary(OpMul, a, b) }

// Div returns a / b.
func Div(a, b any) Expr { return Binary(OpDiv, a, b) }

// Pow returns a ^ b.
func Pow(a, b any) Expr { return Binary(OpPow, a, b) }

func promote(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}
	n, err := NumberOf(v)
	if err != nil {
		panic(err)
	}
	return n
}

func (b *BinaryExpr) Op() Operator     { return b.op }
func (b *BinaryExpr) Left() Expr       { return b.left }
func (b *BinaryExpr) Right() Expr      { return b.right }
func (b *BinaryExpr) Kind() string     { return b.op.kind() }
func (b *BinaryExpr) Operands() []Expr { return []Expr{b.left, b.right} }

func (b *BinaryExpr) Precedence() int {
	if b.op.valid() {
		return opTable[b.op].rank
	}
	return 0
}

// String renders "<left> <symbol> <right>", wrapping an operand in
// parentheses iff that operand binds looser than b itself. Equal ranks get
// no parentheses, so a - b - c and a ^ b ^ c render flat regardless of how
// they nest.
func (b *BinaryExpr) String() string {
	l, r := b.left.String(), b.right.String()
	if b.left.Precedence() > b.Precedence() {
		l = "(" + l + ")"
	}
	if b.right.Precedence() > b.Precedence() {
		r = "(" + r + ")"
	}
	return l + " " + b.op.String() + " " + r
}

func (b *BinaryExpr) GoString() string {
	name := "Binary(" + strconv.Itoa(int(b.op)) + ")"
	if b.op.valid() {
		name = opTable[b.op].goName
	}
	return name + "(" + b.left.GoString() + ", " + b.right.GoString() + ")"
}
