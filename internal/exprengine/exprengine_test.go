package exprengine

import "testing"

func ctxFor(vars map[string]any) *Context {
	return NewContext(vars, FunctionRegistry{
		"env": func(args []any) any {
			if len(args) != 1 {
				return nil
			}
			if _, ok := args[0].(string); !ok {
				return nil
			}
			return nil // deterministic: no env vars defined in tests
		},
	})
}

func mustEval(t *testing.T, expr string, ctx *Context) bool {
	t.Helper()
	result, err := Evaluate(expr, ctx)
	if err != nil {
		t.Fatalf("evaluate %q: %v", expr, err)
	}
	return result
}

func TestEmptyAndWhitespaceExpressionsAreTrue(t *testing.T) {
	ctx := ctxFor(nil)
	if !mustEval(t, "", ctx) {
		t.Fatalf("expected empty expression to be true")
	}
	if !mustEval(t, "   ", ctx) {
		t.Fatalf("expected whitespace expression to be true")
	}
}

func TestLiteralsAndEquality(t *testing.T) {
	ctx := ctxFor(map[string]any{"tool_name": "Bash"})
	if !mustEval(t, `tool_name == "Bash"`, ctx) {
		t.Fatalf("expected equality match")
	}
	if mustEval(t, `tool_name == "Read"`, ctx) {
		t.Fatalf("expected equality mismatch")
	}
	if !mustEval(t, "true", ctx) {
		t.Fatalf("expected bare true literal")
	}
	if mustEval(t, "false", ctx) {
		t.Fatalf("expected bare false literal")
	}
}

func TestComparisonOperators(t *testing.T) {
	ctx := ctxFor(nil)
	cases := map[string]bool{
		"5 > 3":  true,
		"3 < 5":  true,
		"5 >= 5": true,
		"5 <= 5": true,
		"5 != 3": true,
		"5 == 3": false,
	}
	for expr, want := range cases {
		if got := mustEval(t, expr, ctx); got != want {
			t.Fatalf("%s: got %v, want %v", expr, got, want)
		}
	}
}

func TestLogicalOperators(t *testing.T) {
	ctx := ctxFor(map[string]any{"tool_name": "Bash", "permission_mode": "default"})
	if !mustEval(t, `tool_name == "Bash" and permission_mode == "default"`, ctx) {
		t.Fatalf("expected and to be true")
	}
	if mustEval(t, `tool_name == "Read" and permission_mode == "default"`, ctx) {
		t.Fatalf("expected and to be false when one side is false")
	}
	if !mustEval(t, `tool_name == "Read" or permission_mode == "default"`, ctx) {
		t.Fatalf("expected or to be true")
	}
	if !mustEval(t, `not tool_name == "Read"`, ctx) {
		t.Fatalf("expected not to negate false comparison to true")
	}
}

func TestInOperator(t *testing.T) {
	ctx := ctxFor(map[string]any{"tool_name": "Bash"})
	if !mustEval(t, `tool_name in ["Bash", "Read", "Write"]`, ctx) {
		t.Fatalf("expected membership match")
	}
	if mustEval(t, `tool_name in ["Read", "Write", "Edit"]`, ctx) {
		t.Fatalf("expected membership mismatch")
	}
}

func TestRegexSearchOperator(t *testing.T) {
	ctx := ctxFor(map[string]any{"tool_name": "Bash"})
	if !mustEval(t, `tool_name =~ "^Ba"`, ctx) {
		t.Fatalf("expected anchored regex match")
	}
	if mustEval(t, `tool_name =~ "^Re"`, ctx) {
		t.Fatalf("expected regex mismatch")
	}
	if !mustEval(t, `tool_name =~ ".*as.*"`, ctx) {
		t.Fatalf("expected regex search (not just anchor) to match")
	}
}

func TestParenthesesGrouping(t *testing.T) {
	ctx := ctxFor(map[string]any{"tool_name": "Bash", "permission_mode": "default"})
	expr := `(tool_name == "Bash" or tool_name == "Read") and permission_mode == "default"`
	if !mustEval(t, expr, ctx) {
		t.Fatalf("expected grouped expression to be true")
	}
}

func TestMissingPathYieldsNull(t *testing.T) {
	ctx := ctxFor(map[string]any{"tool_input": map[string]any{"command": "ls"}})
	if !mustEval(t, "missing_field == null", ctx) {
		t.Fatalf("expected missing top-level field to be null")
	}
	if !mustEval(t, `tool_input.missing == null`, ctx) {
		t.Fatalf("expected missing nested field to be null")
	}
	if !mustEval(t, `tool_input["command"] == "ls"`, ctx) {
		t.Fatalf("expected bracketed path access to resolve")
	}
}

func TestUnknownFunctionYieldsNull(t *testing.T) {
	ctx := ctxFor(nil)
	if !mustEval(t, "nonexistent_fn() == null", ctx) {
		t.Fatalf("expected unknown function call to yield null")
	}
}

func TestInvalidSyntaxReturnsExpressionError(t *testing.T) {
	ctx := ctxFor(nil)
	if _, err := Evaluate(`tool_name ==`, ctx); err == nil {
		t.Fatalf("expected error for incomplete comparison")
	}
	if _, err := Evaluate(`(unclosed`, ctx); err == nil {
		t.Fatalf("expected error for unclosed parenthesis")
	}
}

func TestReuseCompiledExpressionAgainstMultipleContexts(t *testing.T) {
	compiled, err := Compile(`tool_name == "Bash"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	bash, err := compiled.Evaluate(ctxFor(map[string]any{"tool_name": "Bash"}))
	if err != nil || !bash {
		t.Fatalf("expected Bash context to match, got %v, %v", bash, err)
	}
	read, err := compiled.Evaluate(ctxFor(map[string]any{"tool_name": "Read"}))
	if err != nil || read {
		t.Fatalf("expected Read context not to match, got %v, %v", read, err)
	}
}
