package ideastore

import (
	"os"
	"time"

	"github.com/oaps-dev/oaps/internal/frontmatter"
	"github.com/oaps-dev/oaps/internal/types"
)

// ideaToSummary converts an Idea to its index entry; body is never
// inlined into the index so listing stays cheap.
func ideaToSummary(idea *types.Idea) map[string]any {
	m := map[string]any{
		"id":        idea.ID,
		"title":     idea.Title,
		"status":    string(idea.Status),
		"idea_type": string(idea.IdeaType),
		"created":   idea.Created.UTC().Format(time.RFC3339Nano),
		"updated":   idea.Updated.UTC().Format(time.RFC3339Nano),
		"file_path": idea.ID + ideaFileSuffix,
	}
	if idea.Author != "" {
		m["author"] = idea.Author
	}
	if len(idea.Tags) > 0 {
		m["tags"] = idea.Tags
	}
	return m
}

func summaryToIdea(m map[string]any) *types.Idea {
	idea := &types.Idea{
		ID:       asString(m["id"]),
		Title:    asString(m["title"]),
		Status:   types.IdeaStatus(asString(m["status"])),
		IdeaType: types.IdeaType(asString(m["idea_type"])),
		Author:   asString(m["author"]),
		Tags:     asStringSlice(m["tags"]),
	}
	if t, ok := parseTime(m["created"]); ok {
		idea.Created = t
	}
	if t, ok := parseTime(m["updated"]); ok {
		idea.Updated = t
	}
	return idea
}

// ideaToFrontmatter converts an Idea into the map persisted in its
// Markdown file's front-matter block.
func ideaToFrontmatter(idea *types.Idea) map[string]any {
	m := map[string]any{
		"id":        idea.ID,
		"title":     idea.Title,
		"status":    string(idea.Status),
		"idea_type": string(idea.IdeaType),
		"created":   idea.Created.UTC().Format(time.RFC3339Nano),
		"updated":   idea.Updated.UTC().Format(time.RFC3339Nano),
		"author":    idea.Author,
		"tags":      idea.Tags,
		"related_ideas": idea.RelatedIdeas,
	}
	if len(idea.References) > 0 {
		refs := make([]map[string]any, 0, len(idea.References))
		for _, r := range idea.References {
			refs = append(refs, map[string]any{"url": r.URL, "title": r.Title})
		}
		m["references"] = refs
	}
	if len(idea.Workflow) > 0 {
		m["workflow"] = idea.Workflow
	}
	return m
}

func frontmatterToIdea(m map[string]any, body string) *types.Idea {
	idea := &types.Idea{
		ID:           asString(m["id"]),
		Title:        asString(m["title"]),
		Status:       types.IdeaStatus(asString(m["status"])),
		IdeaType:     types.IdeaType(asString(m["idea_type"])),
		Author:       asString(m["author"]),
		Body:         body,
		Tags:         asStringSlice(m["tags"]),
		RelatedIdeas: asStringSlice(m["related_ideas"]),
	}
	if t, ok := parseTime(m["created"]); ok {
		idea.Created = t
	}
	if t, ok := parseTime(m["updated"]); ok {
		idea.Updated = t
	}
	if refsAny, ok := m["references"].([]any); ok {
		for _, r := range refsAny {
			if rm, ok := r.(map[string]any); ok {
				idea.References = append(idea.References, types.IdeaReference{
					URL:   asString(rm["url"]),
					Title: asString(rm["title"]),
				})
			}
		}
	}
	if wfAny, ok := m["workflow"].(map[string]any); ok {
		wf := make(map[string]string, len(wfAny))
		for k, v := range wfAny {
			wf[k] = asString(v)
		}
		idea.Workflow = wf
	}
	return idea
}

// loadIdea reads and parses one idea file by id.
func (s *Store) loadIdea(id string) (*types.Idea, error) {
	path := s.ideaPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	meta, body, err := frontmatter.Parse(string(data))
	if err != nil {
		return nil, err
	}
	// Serialize ends the file with a newline after the body; drop it so
	// a loaded body matches the one that was saved.
	if n := len(body); n > 0 && body[n-1] == '\n' {
		body = body[:n-1]
	}
	return frontmatterToIdea(meta, body), nil
}

// saveIdea writes idea to its Markdown file.
func (s *Store) saveIdea(idea *types.Idea) error {
	content, err := frontmatter.Serialize(ideaToFrontmatter(idea), idea.Body)
	if err != nil {
		return err
	}
	return os.WriteFile(s.ideaPath(idea.ID), []byte(content), 0o644)
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
