package frontmatter

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// fieldOrder is the canonical key order for artifact/spec/idea front-matter
// and sidecar YAML. Keys not listed here (registry-defined type_fields)
// are appended afterward in sorted order, so serialize output is
// reproducible across runs regardless of Go's randomized map iteration.
var fieldOrder = []string{
	"id", "type", "spec_id", "subtype", "slug", "title", "spec_type",
	"req_type", "method", "idea_type", "status", "last_result",
	"created", "updated", "author", "authors", "version",
	"reviewers", "description", "rationale", "acceptance_criteria",
	"verified_by", "depends_on", "extends", "supersedes", "superseded_by",
	"integrates", "references", "tags", "file", "function",
	"tests_requirements", "related_ideas", "workflow", "summary",
}

var fieldPriority = func() map[string]int {
	m := make(map[string]int, len(fieldOrder))
	for i, k := range fieldOrder {
		m[k] = i
	}
	return m
}()

// mapToOrderedNode builds a yaml.Node mapping whose keys appear in
// fieldOrder, with any remaining keys sorted alphabetically afterward.
func mapToOrderedNode(meta map[string]any) (*yaml.Node, error) {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, iok := fieldPriority[keys[i]]
		pj, jok := fieldPriority[keys[j]]
		switch {
		case iok && jok:
			return pi < pj
		case iok:
			return true
		case jok:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		v := meta[k]
		if isEmptyValue(v) {
			continue
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{}
		if err := valNode.Encode(v); err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", k, err)
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// isEmptyValue implements the "unset optional fields must be omitted,
// not written as null or empty lists" rule from spec §4.1.
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case map[string]string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
