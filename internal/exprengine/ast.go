package exprengine

import "regexp"

// node is an expression-tree element. Evaluate returns a Go value of
// dynamic type string, int64, float64, bool, nil, or []any.
type node interface {
	eval(ctx *Context) (any, error)
}

type literalNode struct{ value any }

func (n *literalNode) eval(*Context) (any, error) { return n.value, nil }

type listNode struct{ items []node }

func (n *listNode) eval(ctx *Context) (any, error) {
	out := make([]any, len(n.items))
	for i, item := range n.items {
		v, err := item.eval(ctx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// pathNode resolves a dotted/bracketed variable path against the
// context. A missing segment at any point yields nil rather than an
// error (spec §4.10: missing paths yield null).
type pathNode struct{ segments []string }

func (n *pathNode) eval(ctx *Context) (any, error) {
	var cur any = ctx.Vars
	for _, seg := range n.segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, nil
		}
		v, ok := m[seg]
		if !ok {
			return nil, nil
		}
		cur = v
	}
	return cur, nil
}

// callNode invokes a named function from the context's registry.
// Unknown names yield nil (spec §4.10).
type callNode struct {
	name string
	args []node
}

func (n *callNode) eval(ctx *Context) (any, error) {
	fn, ok := ctx.Funcs[n.name]
	if !ok {
		return nil, nil
	}
	args := make([]any, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn(args), nil
}

type notNode struct{ operand node }

func (n *notNode) eval(ctx *Context) (any, error) {
	v, err := n.operand.eval(ctx)
	if err != nil {
		return nil, err
	}
	return !truthy(v), nil
}

type boolOpNode struct {
	and         bool
	left, right node
}

func (n *boolOpNode) eval(ctx *Context) (any, error) {
	l, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	if n.and && !truthy(l) {
		return false, nil
	}
	if !n.and && truthy(l) {
		return true, nil
	}
	r, err := n.right.eval(ctx)
	if err != nil {
		return nil, err
	}
	return truthy(r), nil
}

type compareOp int

const (
	opEq compareOp = iota
	opNeq
	opLt
	opLte
	opGt
	opGte
	opIn
	opRegex
)

type compareNode struct {
	op          compareOp
	left, right node
}

func (n *compareNode) eval(ctx *Context) (any, error) {
	l, err := n.left.eval(ctx)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(ctx)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case opEq:
		return equalValues(l, r), nil
	case opNeq:
		return !equalValues(l, r), nil
	case opLt, opLte, opGt, opGte:
		return compareOrdered(n.op, l, r)
	case opIn:
		return inList(l, r), nil
	case opRegex:
		pattern, ok := r.(string)
		if !ok {
			return false, nil
		}
		subject, ok := l.(string)
		if !ok {
			return false, nil
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, &exprError{reason: "invalid regex: " + err.Error()}
		}
		return re.MatchString(subject), nil
	default:
		return false, nil
	}
}
