// Package calc implements the restricted single-variable arithmetic
// expressions used by a uint/int field's encalc/decalc attributes (spec.md
// §4.3). Expressions are parsed by a hand-written recursive-descent parser
// over a closed grammar — numeric literals, the variable v, + - * / // % **,
// unary ~ and -, parentheses, and round(x, n) — so a schema-supplied string
// can never reach arbitrary code execution. There is deliberately no path
// through this package to Go's reflect, os/exec, or any interpreter: that is
// a hard requirement, not an implementation detail.
package calc

import (
	"strconv"

	"github.com/arloliu/cbc/errs"
)

// Expr is a parsed, ready-to-evaluate calc expression.
type Expr struct {
	root node
	src  string
}

// Identity is the empty expression: Eval returns v unchanged. Parse returns
// Identity for an empty or absent expression string, per spec.md §4.3.
var Identity = Expr{root: varNode{}}

// Parse validates and compiles expr. An empty string parses to the identity
// transform.
func Parse(expr string) (Expr, error) {
	if expr == "" {
		return Identity, nil
	}

	p, err := newParser(expr)
	if err != nil {
		return Expr{}, wrapErr(expr, err)
	}
	root, err := p.parse()
	if err != nil {
		return Expr{}, wrapErr(expr, err)
	}

	return Expr{root: root, src: expr}, nil
}

// Eval evaluates the expression with v bound to its free variable.
func (e Expr) Eval(v float64) (float64, error) {
	if e.root == nil {
		return v, nil
	}

	result, err := e.root.eval(v)
	if err != nil {
		return 0, wrapErr(e.src, err)
	}

	return result, nil
}

// String returns the original source expression, or "" for the identity.
func (e Expr) String() string {
	return e.src
}

func wrapErr(src string, err error) error {
	if src == "" {
		return errs.ErrInvalidExpression
	}

	return &exprError{src: src, cause: err}
}

type exprError struct {
	src   string
	cause error
}

func (e *exprError) Error() string {
	return "cbc: invalid calc expression " + strconv.Quote(e.src) + ": " + e.cause.Error()
}

func (e *exprError) Unwrap() error {
	return errs.ErrInvalidExpression
}
