package exprengine

// truthy coerces any value produced by the evaluator to a bool: the
// zero value of its type is falsy, everything else is truthy. Used for
// 'and'/'or'/'not' operands and as the final coercion of a whole
// expression's result.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

func equalValues(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

func compareOrdered(op compareOp, l, r any) (bool, error) {
	lf, lok := toFloat(l)
	rf, rok := toFloat(r)
	if lok && rok {
		switch op {
		case opLt:
			return lf < rf, nil
		case opLte:
			return lf <= rf, nil
		case opGt:
			return lf > rf, nil
		case opGte:
			return lf >= rf, nil
		}
	}
	ls, lok := l.(string)
	rs, rok := r.(string)
	if lok && rok {
		switch op {
		case opLt:
			return ls < rs, nil
		case opLte:
			return ls <= rs, nil
		case opGt:
			return ls > rs, nil
		case opGte:
			return ls >= rs, nil
		}
	}
	return false, &exprError{reason: "cannot compare incompatible operand types"}
}

func inList(needle, haystack any) bool {
	list, ok := haystack.([]any)
	if !ok {
		return false
	}
	for _, item := range list {
		if equalValues(needle, item) {
			return true
		}
	}
	return false
}

type exprError struct{ reason string }

func (e *exprError) Error() string { return e.reason }
