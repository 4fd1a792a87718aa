package frontmatter

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholder matches "{{ key }}" with optional surrounding whitespace
// and a dotted path, e.g. "{{ spec.title }}". This is deliberately a
// narrow subset of Jinja2 (the original's templating engine, which has
// no equivalent dependency in the pack): a single dotted-key lookup per
// placeholder, no filters, no control flow. See DESIGN.md for why this
// stays on the standard library rather than reaching for a general
// template engine.
var placeholder = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// renderString substitutes every "{{ key }}" placeholder in s by
// resolving a dotted path against context. A path that does not resolve
// renders to the empty string.
func renderString(s string, context map[string]any) string {
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		sub := placeholder.FindStringSubmatch(match)
		if len(sub) != 2 {
			return ""
		}
		val, ok := lookupPath(context, sub[1])
		if !ok {
			return ""
		}
		return stringify(val)
	})
}

func lookupPath(context map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = context
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[p]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return ""
	}
}

// renderValue recursively renders string values within meta, dropping
// map entries whose rendered key is empty (spec §4.1: "keys that render
// to empty strings cause the containing map entry to be dropped").
func renderValue(value any, context map[string]any) any {
	switch t := value.(type) {
	case string:
		return renderString(t, context)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = renderValue(item, context)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			renderedKey := renderString(k, context)
			if renderedKey == "" {
				continue
			}
			out[renderedKey] = renderValue(v, context)
		}
		return out
	default:
		return value
	}
}
