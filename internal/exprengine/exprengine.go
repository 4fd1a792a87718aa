package exprengine

import (
	"strings"

	"github.com/oaps-dev/oaps/internal/oapserrors"
)

// FunctionRegistry resolves a function name to an implementation.
// Unknown names are treated as yielding nil, not an error (spec
// §4.10).
type FunctionRegistry map[string]func(args []any) any

// Context is what a compiled Expression is evaluated against: the
// variable dictionary a path expression walks, plus the function
// registry a call expression dispatches through.
type Context struct {
	Vars  map[string]any
	Funcs FunctionRegistry
}

// NewContext builds a Context from a flat variable map and an
// optional function registry (nil is treated as empty).
func NewContext(vars map[string]any, funcs FunctionRegistry) *Context {
	if funcs == nil {
		funcs = FunctionRegistry{}
	}
	return &Context{Vars: vars, Funcs: funcs}
}

// Expression is a compiled, reusable form of a boolean expression.
type Expression struct {
	root node
	raw  string
}

// Compile parses expr into a reusable Expression. An empty or
// whitespace-only expression compiles to a constant-true expression
// (spec §4.10).
func Compile(expr string) (*Expression, error) {
	if strings.TrimSpace(expr) == "" {
		return &Expression{root: &literalNode{value: true}, raw: expr}, nil
	}
	root, err := parseExpr(expr)
	if err != nil {
		return nil, err
	}
	return &Expression{root: root, raw: expr}, nil
}

// Evaluate runs the compiled expression against ctx, coercing whatever
// the root node produces to a bool (spec §4.10: the language's
// operators already all yield booleans, but a bare literal, path, or
// function call used as a whole expression is coerced by truthiness).
func (e *Expression) Evaluate(ctx *Context) (bool, error) {
	v, err := e.root.eval(ctx)
	if err != nil {
		return false, &oapserrors.ExpressionError{Expr: e.raw, Reason: err.Error()}
	}
	return truthy(v), nil
}

// Evaluate is a convenience one-shot form: compile expr and evaluate
// it against ctx immediately, without keeping the compiled form.
func Evaluate(expr string, ctx *Context) (bool, error) {
	compiled, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return compiled.Evaluate(ctx)
}
