package registry

// builtinTypes are the reserved prefixes spec §4.2 requires to exist
// out of the box. Seven are named explicitly by the spec (RV, DC, CH,
// AN, DG, EX, IM); the remaining three extend coverage to the other
// artifact-shaped records original_source/artifacts/_store.py scaffolds
// templates for: a note (NT) for unstructured working notes, a
// reference (RF) for external links/citations distinct from a decision
// or review, and a snippet (SN) for reusable code fragments — binary
// like IM since a snippet's payload is a source file.
var builtinTypes = []TypeDefinition{
	{
		Prefix:   "RV",
		Name:     "review",
		Category: Text,
		Subtypes: []string{"code", "design", "security", "performance"},
		Fields: []TypeField{
			{Name: "subject", Type: FieldString, Required: true},
			{Name: "verdict", Type: FieldEnum, Required: false,
				AllowedValues: []string{"approved", "changes_requested", "blocked"}},
		},
		DefaultTemplate: "review.md.tmpl",
	},
	{
		Prefix:   "DC",
		Name:     "decision",
		Category: Text,
		Subtypes: []string{"architecture", "process", "tooling"},
		Fields: []TypeField{
			{Name: "rationale", Type: FieldString, Required: true},
			{Name: "alternatives_considered", Type: FieldList, Required: false},
		},
		DefaultTemplate: "decision.md.tmpl",
	},
	{
		Prefix:   "CH",
		Name:     "change",
		Category: Text,
		Subtypes: []string{"breaking", "feature", "fix", "chore"},
		Fields: []TypeField{
			{Name: "affected_components", Type: FieldList, Required: false},
		},
		DefaultTemplate: "change.md.tmpl",
	},
	{
		Prefix:   "AN",
		Name:     "analysis",
		Category: Text,
		Subtypes: []string{"root_cause", "tradeoff", "benchmark"},
		Fields: []TypeField{
			{Name: "methodology", Type: FieldString, Required: false},
		},
		DefaultTemplate: "analysis.md.tmpl",
	},
	{
		Prefix:   "DG",
		Name:     "diagram",
		Category: Binary,
		Subtypes: []string{"sequence", "architecture", "flow", "erd"},
		Fields: []TypeField{
			{Name: "source_format", Type: FieldEnum, Required: false,
				AllowedValues: []string{"mermaid", "plantuml", "excalidraw", "drawio"}},
		},
		Formats: []string{"png", "svg", "mmd"},
	},
	{
		Prefix:   "EX",
		Name:     "example",
		Category: Text,
		Subtypes: []string{"usage", "recipe", "anti_pattern"},
		Fields:   []TypeField{},
		DefaultTemplate: "example.md.tmpl",
	},
	{
		Prefix:   "IM",
		Name:     "image",
		Category: Binary,
		Subtypes: []string{"screenshot", "diagram_export", "asset"},
		Fields:   []TypeField{},
		Formats:  []string{"png", "jpg", "webp"},
	},
	{
		Prefix:   "NT",
		Name:     "note",
		Category: Text,
		Subtypes: []string{"meeting", "scratch", "research"},
		Fields:   []TypeField{},
		DefaultTemplate: "note.md.tmpl",
	},
	{
		Prefix:   "RF",
		Name:     "reference",
		Category: Text,
		Subtypes: []string{"external_doc", "citation", "standard"},
		Fields: []TypeField{
			{Name: "url", Type: FieldString, Required: false},
		},
		DefaultTemplate: "reference.md.tmpl",
	},
	{
		Prefix:   "SN",
		Name:     "snippet",
		Category: Binary,
		Subtypes: []string{"config", "script", "source"},
		Fields: []TypeField{
			{Name: "language", Type: FieldString, Required: false},
		},
		Formats: []string{"txt", "go", "py", "sh", "yaml", "json"},
	},
}
