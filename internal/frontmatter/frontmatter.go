// Package frontmatter implements the codec described in spec §4.1: a
// leading YAML front-matter block plus a Markdown body for text
// artifacts, and a standalone YAML sidecar for binary ones. Grounded on
// original_source/templating/_frontmatter.py, re-expressed against
// gopkg.in/yaml.v3 the way BeadsLog uses the same library throughout its
// storage layer for config and issue serialization.
package frontmatter

import (
	"fmt"
	"strings"

	"github.com/oaps-dev/oaps/internal/oapserrors"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Parse splits raw Markdown content into a front-matter mapping and body.
// It returns frontmatter=nil, body=content verbatim when no leading
// "---" delimiter is present — that is not an error, just the "no
// front-matter" case. A present but malformed YAML block raises a
// FormatError. CRLF line endings are accepted transparently because they
// are normalized to LF before the delimiter search.
func Parse(content string) (map[string]any, string, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, delimiter) {
		return nil, content, nil
	}

	rest := normalized[len(delimiter):]
	end := strings.Index(rest, "\n"+delimiter)
	if end == -1 {
		// No closing delimiter: treat as "no front-matter detected".
		return nil, content, nil
	}

	yamlBlock := strings.TrimSpace(rest[:end])
	body := strings.TrimPrefix(rest[end+1+len(delimiter):], "\n")
	body = strings.TrimPrefix(body, "\n")

	if yamlBlock == "" {
		return map[string]any{}, body, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &raw); err != nil {
		return nil, "", &oapserrors.FormatError{
			Reason: "malformed YAML front-matter",
			Err:    err,
		}
	}
	if raw == nil {
		return map[string]any{}, body, nil
	}
	return raw, body, nil
}

// ParseWithContext parses front-matter the same way as Parse, then
// renders every string value (recursively through maps and slices)
// through the template substitution engine described in spec §4.1. This
// is only used by template front-matter (scaffolding new artifacts from
// a named template), never by artifact storage itself.
func ParseWithContext(content string, context map[string]any) (map[string]any, string, error) {
	fm, body, err := Parse(content)
	if err != nil || fm == nil || len(context) == 0 {
		return fm, body, err
	}
	rendered, _ := renderValue(fm, context).(map[string]any)
	return rendered, body, nil
}

// Serialize emits front-matter plus body as UTF-8 text with a trailing
// newline. Unset optional fields (nil, an empty string, or an empty
// slice or map) are dropped from the YAML by the serializer itself (see
// isEmptyValue in order.go), so meta may carry them as they are.
func Serialize(meta map[string]any, body string) (string, error) {
	yamlBytes, err := marshalStableOrder(meta)
	if err != nil {
		return "", fmt.Errorf("serializing front-matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.Write(yamlBytes)
	if !strings.HasSuffix(string(yamlBytes), "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.WriteByte('\n')
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteByte('\n')
	return b.String(), nil
}

// ParseSidecar parses a YAML sidecar file's contents (no body, no
// delimiters).
func ParseSidecar(content string) (map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(content), &raw); err != nil {
		return nil, &oapserrors.FormatError{Reason: "malformed YAML sidecar", Err: err}
	}
	return raw, nil
}

// SerializeSidecar emits meta as standalone YAML, same stability and
// omission rules as Serialize.
func SerializeSidecar(meta map[string]any) (string, error) {
	yamlBytes, err := marshalStableOrder(meta)
	if err != nil {
		return "", fmt.Errorf("serializing sidecar: %w", err)
	}
	out := string(yamlBytes)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

// marshalStableOrder uses yaml.Node encoding so that callers can control
// field order via fieldOrder (see order.go) rather than relying on Go
// map iteration order, which yaml.v3 would otherwise sort alphabetically
// on a plain map[string]any.
func marshalStableOrder(meta map[string]any) ([]byte, error) {
	node, err := mapToOrderedNode(meta)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}
