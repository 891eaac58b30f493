package symdiff

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// ErrBadEncoding marks expression JSON that cannot be decoded or a node
// that cannot be encoded.
var ErrBadEncoding = errors.New("malformed expression encoding")

// envelope is the wire form of a single node:
//
//	{"kind":"number","value":2}
//	{"kind":"symbol","name":"x"}
//	{"kind":"add","operands":[...,...]}
type envelope struct {
	Kind     string            `json:"kind"`
	Value    *float64          `json:"value,omitempty"`
	Name     string            `json:"name,omitempty"`
	Operands []json.RawMessage `json:"operands,omitempty"`
}

// MarshalExpr encodes an expression tree as JSON. A subexpression shared by
// several parents is encoded once per occurrence; sharing is not preserved
// across a round trip.
func MarshalExpr(e Expr) ([]byte, error) {
	return Postorder(e, encodeNode, struct{}{})
}

func encodeNode(n Expr, kids []json.RawMessage, _ struct{}) (json.RawMessage, error) {
	env := envelope{Kind: n.Kind()}
	switch t := n.(type) {
	case *Number:
		v := t.Value()
		env.Value = &v
	case *Symbol:
		env.Name = t.Name()
	case *BinaryExpr:
		env.Operands = kids
	default:
		return nil, errors.Wrapf(ErrBadEncoding, "cannot encode node kind %q", n.Kind())
	}
	return json.Marshal(env)
}

// UnmarshalExpr decodes an expression tree produced by MarshalExpr.
func UnmarshalExpr(data []byte) (Expr, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrapf(ErrBadEncoding, "%v", err)
	}
	switch env.Kind {
	case "number":
		if env.Value == nil {
			return nil, errors.Wrap(ErrBadEncoding, "number node without a value")
		}
		return Num(*env.Value), nil
	case "symbol":
		if env.Name == "" {
			return nil, errors.Wrap(ErrBadEncoding, "symbol node without a name")
		}
		return Sym(env.Name), nil
	}
	op, ok := operatorForKind(env.Kind)
	if !ok {
		return nil, errors.Wrapf(ErrBadEncoding, "unknown node kind %q", env.Kind)
	}
	if len(env.Operands) != 2 {
		return nil, errors.Wrapf(ErrBadEncoding, "%s node wants 2 operands, got %d",
			env.Kind, len(env.Operands))
	}
	left, err := UnmarshalExpr(env.Operands[0])
	if err != nil {
		return nil, err
	}
	right, err := UnmarshalExpr(env.Operands[1])
	if err != nil {
		return nil, err
	}
	return Binary(op, left, right), nil
}
