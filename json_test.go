package symdiff_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	symdiff "github.com/exprkit/symdiff"
)

func TestMarshalExpr_Forms(t *testing.T) {
	raw, err := symdiff.MarshalExpr(symdiff.Num(2))
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"number","value":2}`, string(raw))

	raw, err = symdiff.MarshalExpr(symdiff.Sym("x"))
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"symbol","name":"x"}`, string(raw))

	raw, err = symdiff.MarshalExpr(symdiff.Add(symdiff.Sym("x"), 2))
	require.NoError(t, err)
	require.JSONEq(t,
		`{"kind":"add","operands":[{"kind":"symbol","name":"x"},{"kind":"number","value":2}]}`,
		string(raw))
}

func TestMarshalExpr_UnknownNodeKind(t *testing.T) {
	_, err := symdiff.MarshalExpr(&negExpr{arg: symdiff.Sym("x")})
	require.ErrorIs(t, err, symdiff.ErrBadEncoding)
}

func TestUnmarshalExpr_RoundTrip(t *testing.T) {
	x, y := symdiff.Sym("x"), symdiff.Sym("y")
	exprs := []symdiff.Expr{
		symdiff.Num(3.5),
		x,
		symdiff.Add(symdiff.Mul(2, x), 1),
		symdiff.Div(symdiff.Pow(x, 2), symdiff.Sub(y, 1)),
	}
	for _, e := range exprs {
		raw, err := symdiff.MarshalExpr(e)
		require.NoError(t, err)
		back, err := symdiff.UnmarshalExpr(raw)
		require.NoError(t, err)
		require.Equal(t, e.String(), back.String())
		require.Equal(t, e.GoString(), back.GoString())
	}
}

func TestUnmarshalExpr_Rejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"not json", "{"},
		{"unknown kind", `{"kind":"sin","operands":[]}`},
		{"number without value", `{"kind":"number"}`},
		{"symbol without name", `{"kind":"symbol"}`},
		{"operand count", `{"kind":"add","operands":[{"kind":"number","value":1}]}`},
		{"bad operand", `{"kind":"add","operands":[{"kind":"number","value":1},{"kind":"huh"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := symdiff.UnmarshalExpr([]byte(tc.in))
			require.ErrorIs(t, err, symdiff.ErrBadEncoding)
		})
	}
}

func TestMarshalExpr_OutputIsValidJSON(t *testing.T) {
	e := symdiff.Pow(symdiff.Add(symdiff.Sym("a"), symdiff.Sym("b")), 2)
	raw, err := symdiff.MarshalExpr(e)
	require.NoError(t, err)
	require.True(t, json.Valid(raw))
}
