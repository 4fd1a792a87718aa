package artifactstore

import (
	"os"
	"path/filepath"
	"time"

	"github.com/oaps-dev/oaps/internal/frontmatter"
	"github.com/oaps-dev/oaps/internal/types"
)

// standardSummaryFields are the keys artifactToSummary always controls
// itself; everything else in a summary map is a registry type_field and
// round-trips through Artifact.TypeFields.
var standardSummaryFields = map[string]bool{
	"id": true, "type": true, "subtype": true, "title": true, "status": true,
	"created": true, "updated": true, "author": true, "reviewers": true,
	"references": true, "supersedes": true, "superseded_by": true,
	"tags": true, "summary": true, "file_path": true, "metadata_file_path": true,
}

// artifactToSummary converts an Artifact to its index entry, inlining
// TypeFields alongside the standard fields the way the on-disk index
// stores them.
func artifactToSummary(a *types.Artifact, basePath string) map[string]any {
	m := map[string]any{
		"id":      a.ID,
		"type":    a.Type,
		"title":   a.Title,
		"status":  string(a.Status),
		"created": a.Created.UTC().Format(time.RFC3339Nano),
		"author":  a.Author,
	}
	if rel, err := filepath.Rel(basePath, a.FilePath); err == nil {
		m["file_path"] = rel
	} else {
		m["file_path"] = a.FilePath
	}
	if a.Subtype != "" {
		m["subtype"] = a.Subtype
	}
	if a.Updated != nil {
		m["updated"] = a.Updated.UTC().Format(time.RFC3339Nano)
	}
	if len(a.Reviewers) > 0 {
		m["reviewers"] = a.Reviewers
	}
	if len(a.References) > 0 {
		m["references"] = a.References
	}
	if a.Supersedes != "" {
		m["supersedes"] = a.Supersedes
	}
	if a.SupersededBy != "" {
		m["superseded_by"] = a.SupersededBy
	}
	if len(a.Tags) > 0 {
		m["tags"] = a.Tags
	}
	if a.Summary != "" {
		m["summary"] = a.Summary
	}
	if a.MetadataFilePath != "" {
		if rel, err := filepath.Rel(basePath, a.MetadataFilePath); err == nil {
			m["metadata_file_path"] = rel
		} else {
			m["metadata_file_path"] = a.MetadataFilePath
		}
	}
	for k, v := range a.TypeFields {
		m[k] = v
	}
	return m
}

// summaryToArtifact reconstructs an Artifact from an index entry.
func summaryToArtifact(m map[string]any, basePath string) *types.Artifact {
	a := &types.Artifact{
		ID:     asString(m["id"]),
		Type:   asString(m["type"]),
		Title:  asString(m["title"]),
		Status: types.ArtifactStatus(asString(m["status"])),
		Author: asString(m["author"]),
	}
	if t, ok := parseTime(m["created"]); ok {
		a.Created = t
	}
	if t, ok := parseTime(m["updated"]); ok {
		a.Updated = &t
	}
	if fp := asString(m["file_path"]); fp != "" {
		a.FilePath = filepath.Join(basePath, fp)
	}
	if mfp := asString(m["metadata_file_path"]); mfp != "" {
		a.MetadataFilePath = filepath.Join(basePath, mfp)
	}
	a.Subtype = asString(m["subtype"])
	a.Reviewers = asStringSlice(m["reviewers"])
	a.References = asStringSlice(m["references"])
	a.Supersedes = asString(m["supersedes"])
	a.SupersededBy = asString(m["superseded_by"])
	a.Tags = asStringSlice(m["tags"])
	a.Summary = asString(m["summary"])

	typeFields := map[string]any{}
	for k, v := range m {
		if !standardSummaryFields[k] {
			typeFields[k] = v
		}
	}
	a.TypeFields = typeFields
	return a
}

// metadataToArtifact converts a parsed front-matter/sidecar map into an
// Artifact with no file paths set; callers fill those in.
func metadataToArtifact(m map[string]any) *types.Artifact {
	a := &types.Artifact{
		ID:     asString(m["id"]),
		Type:   asString(m["type"]),
		Title:  asString(m["title"]),
		Status: types.ArtifactStatus(asString(m["status"])),
		Author: asString(m["author"]),
	}
	if t, ok := parseTime(m["created"]); ok {
		a.Created = t
	}
	if t, ok := parseTime(m["updated"]); ok {
		a.Updated = &t
	}
	a.Subtype = asString(m["subtype"])
	a.Reviewers = asStringSlice(m["reviewers"])
	a.References = asStringSlice(m["references"])
	a.Supersedes = asString(m["supersedes"])
	a.SupersededBy = asString(m["superseded_by"])
	a.Tags = asStringSlice(m["tags"])
	a.Summary = asString(m["summary"])

	typeFields := map[string]any{}
	for k, v := range m {
		if !standardSummaryFields[k] && k != "file" {
			typeFields[k] = v
		}
	}
	a.TypeFields = typeFields
	return a
}

// artifactToMetadataMap produces the map handed to frontmatter.Serialize
// or frontmatter.SerializeSidecar: standard fields plus inlined
// TypeFields, with file-path fields omitted since those are derived
// from location rather than stored redundantly.
func artifactToMetadataMap(a *types.Artifact) map[string]any {
	m := map[string]any{
		"id":      a.ID,
		"type":    a.Type,
		"subtype": a.Subtype,
		"title":   a.Title,
		"status":  string(a.Status),
		"created": a.Created.UTC().Format(time.RFC3339Nano),
		"author":  a.Author,
		"reviewers": a.Reviewers,
		"references": a.References,
		"supersedes": a.Supersedes,
		"superseded_by": a.SupersededBy,
		"tags":    a.Tags,
		"summary": a.Summary,
	}
	if a.Updated != nil {
		m["updated"] = a.Updated.UTC().Format(time.RFC3339Nano)
	}
	for k, v := range a.TypeFields {
		m[k] = v
	}
	return m
}

func readFrontmatterFile(path string) (map[string]any, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return frontmatter.Parse(string(data))
}

func readSidecar(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return frontmatter.ParseSidecar(string(data))
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func parseTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
