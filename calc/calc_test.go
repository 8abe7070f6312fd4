package calc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_EmptyIsIdentity(t *testing.T) {
	e, err := Parse("")
	require.NoError(t, err)
	v, err := e.Eval(42)
	require.NoError(t, err)
	require.Equal(t, 42.0, v)
}

func TestEval_Arithmetic(t *testing.T) {
	cases := []struct {
		expr string
		v    float64
		want float64
	}{
		{"v + 1", 3, 4},
		{"v * 2", 5, 10},
		{"v / 4", 9, 2.25},
		{"v // 4", 9, 2},
		{"v % 5", 13, 3},
		{"v ** 2", 3, 9},
		{"-v", 3, -3},
		{"(v + 1) * 2", 3, 8},
		{"v * 0.1", 10, 1},
		{"round(v / 3, 2)", 10, 3.33},
	}
	for _, c := range cases {
		e, err := Parse(c.expr)
		require.NoErrorf(t, err, "expr=%s", c.expr)
		got, err := e.Eval(c.v)
		require.NoErrorf(t, err, "expr=%s", c.expr)
		require.InDeltaf(t, c.want, got, 1e-9, "expr=%s", c.expr)
	}
}

func TestEval_UnaryTilde(t *testing.T) {
	e, err := Parse("~v")
	require.NoError(t, err)
	got, err := e.Eval(0)
	require.NoError(t, err)
	require.Equal(t, -1.0, got)
}

func TestParse_RejectsUnknownIdentifiers(t *testing.T) {
	for _, expr := range []string{
		"eval(v)",
		"open(v)",
		"__import__('os')",
		"v.real",
		"v[0]",
		"foo(v)",
		"exec(v)",
	} {
		_, err := Parse(expr)
		require.Errorf(t, err, "expected rejection of %q", expr)
	}
}

func TestParse_RejectsMalformedExpressions(t *testing.T) {
	for _, expr := range []string{
		"v +",
		"(v",
		"round(v)",
		"v $ 1",
	} {
		_, err := Parse(expr)
		require.Errorf(t, err, "expected rejection of %q", expr)
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	e, err := Parse("v / 0")
	require.NoError(t, err)
	_, err = e.Eval(1)
	require.Error(t, err)
}
