package ideastore

import (
	"sort"
	"strings"
	"time"

	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/types"
)

// Exists reports whether id has a live entry in the index.
func (s *Store) Exists(id string) (bool, error) {
	idx, err := s.load()
	if err != nil {
		return false, err
	}
	return idx.exists(id), nil
}

// GetIdea returns the full idea named by id.
func (s *Store) GetIdea(id string) (*types.Idea, error) {
	idx, err := s.load()
	if err != nil {
		return nil, err
	}
	if idx.findEntry(id) == nil {
		return nil, &oapserrors.NotFoundError{Kind: "idea", ID: id}
	}
	idea, err := s.loadIdea(id)
	if err != nil {
		return nil, &oapserrors.NotFoundError{Kind: "idea", ID: id}
	}
	return idea, nil
}

// ListOptions filters List results.
type ListOptions struct {
	Status          types.IdeaStatus
	IdeaType        types.IdeaType
	Tags            []string
	IncludeArchived bool
}

// ListIdeas returns every idea summary matching opts.
func (s *Store) ListIdeas(opts ListOptions) ([]*types.Idea, error) {
	idx, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []*types.Idea
	for _, e := range idx.Ideas {
		idea := summaryToIdea(e)
		if opts.Status != "" && idea.Status != opts.Status {
			continue
		}
		if opts.IdeaType != "" && idea.IdeaType != opts.IdeaType {
			continue
		}
		if len(opts.Tags) > 0 && !hasAllTags(idea.Tags, opts.Tags) {
			continue
		}
		if !opts.IncludeArchived && idea.Status == types.IdeaArchived {
			continue
		}
		out = append(out, idea)
	}
	return out, nil
}

func hasAllTags(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	for _, t := range want {
		if !set[t] {
			return false
		}
	}
	return true
}

// Search performs a case-insensitive substring search across fields
// (default: title, body, tags). Index fields are checked first; body is
// only loaded from disk when nothing in the index fields matched (spec
// §4.6).
func (s *Store) Search(query string, fields []string) ([]*types.Idea, error) {
	if len(fields) == 0 {
		fields = []string{"title", "body", "tags"}
	}
	wantField := make(map[string]bool, len(fields))
	for _, f := range fields {
		wantField[f] = true
	}
	q := strings.ToLower(query)

	idx, err := s.load()
	if err != nil {
		return nil, err
	}

	var out []*types.Idea
	for _, e := range idx.Ideas {
		idea := summaryToIdea(e)
		matched := false

		if wantField["title"] && strings.Contains(strings.ToLower(idea.Title), q) {
			matched = true
		}
		if !matched && wantField["tags"] {
			for _, tag := range idea.Tags {
				if strings.Contains(strings.ToLower(tag), q) {
					matched = true
					break
				}
			}
		}
		if !matched && wantField["id"] && strings.Contains(strings.ToLower(idea.ID), q) {
			matched = true
		}
		if !matched && wantField["author"] && strings.Contains(strings.ToLower(idea.Author), q) {
			matched = true
		}
		if !matched && wantField["body"] {
			full, err := s.loadIdea(idea.ID)
			if err != nil {
				continue
			}
			if strings.Contains(strings.ToLower(full.Body), q) {
				matched = true
			}
		}

		if matched {
			out = append(out, idea)
		}
	}
	return out, nil
}

// Create creates a new idea and appends a "created" history entry.
func (s *Store) Create(title string, ideaType types.IdeaType, tags []string, body, author string) (*types.Idea, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &oapserrors.ValidationError{Field: "title", Reason: "idea title cannot be empty"}
	}
	if !ideaType.IsValid() {
		return nil, &oapserrors.ValidationError{Field: "idea_type", Reason: "invalid idea type"}
	}

	var idea *types.Idea
	err := s.withLock(func() error {
		idx, err := s.load()
		if err != nil {
			return err
		}
		id := idx.uniqueID(types.GenerateSlug(title))
		now := time.Now().UTC()
		idea = &types.Idea{
			ID:       id,
			Title:    title,
			Status:   types.IdeaSeed,
			IdeaType: ideaType,
			Created:  now,
			Updated:  now,
			Body:     body,
			Tags:     tags,
			Author:   author,
		}
		if err := s.saveIdea(idea); err != nil {
			return err
		}
		idx.Ideas = append(idx.Ideas, ideaToSummary(idea))
		if err := s.writeIndex(idx); err != nil {
			return err
		}
		return s.recordHistory("created", orUnknown(author), id, "", "")
	})
	if err != nil {
		return nil, err
	}
	return idea, nil
}

func orUnknown(actor string) string {
	if actor == "" {
		return "unknown"
	}
	return actor
}

// mutate loads idea by id, applies fn (which mutates idea in place and
// reports the history event/from/to to record), saves the file, and
// optionally refreshes the index entry, all under the store lock.
func (s *Store) mutate(id string, actor string, updateIndex bool, fn func(idea *types.Idea) (event, from, to string, err error)) (*types.Idea, error) {
	var idea *types.Idea
	err := s.withLock(func() error {
		idx, err := s.load()
		if err != nil {
			return err
		}
		if idx.findEntry(id) == nil {
			return &oapserrors.NotFoundError{Kind: "idea", ID: id}
		}
		loaded, err := s.loadIdea(id)
		if err != nil {
			return &oapserrors.NotFoundError{Kind: "idea", ID: id}
		}
		idea = loaded
		event, from, to, err := fn(idea)
		if err != nil {
			return err
		}
		idea.Updated = time.Now().UTC()
		if err := s.saveIdea(idea); err != nil {
			return err
		}
		if updateIndex {
			for i, e := range idx.Ideas {
				if es, _ := e["id"].(string); es == id {
					idx.Ideas[i] = ideaToSummary(idea)
					break
				}
			}
			if err := s.writeIndex(idx); err != nil {
				return err
			}
		}
		return s.recordHistory(event, orUnknown(actor), id, from, to)
	})
	if err != nil {
		return nil, err
	}
	return idea, nil
}

// UpdateStatus transitions idea to status.
func (s *Store) UpdateStatus(id string, status types.IdeaStatus, actor string) (*types.Idea, error) {
	if !status.IsValid() {
		return nil, &oapserrors.ValidationError{Field: "status", Reason: "invalid idea status"}
	}
	return s.mutate(id, actor, true, func(idea *types.Idea) (string, string, string, error) {
		from := string(idea.Status)
		idea.Status = status
		return "status_updated", from, string(status), nil
	})
}

// UpdateContent replaces an idea's body and, optionally, its title.
func (s *Store) UpdateContent(id, body string, title *string, actor string) (*types.Idea, error) {
	if title != nil && strings.TrimSpace(*title) == "" {
		return nil, &oapserrors.ValidationError{Field: "title", Reason: "idea title cannot be empty"}
	}
	return s.mutate(id, actor, title != nil, func(idea *types.Idea) (string, string, string, error) {
		idea.Body = body
		if title != nil {
			idea.Title = *title
		}
		return "content_updated", "", "", nil
	})
}

// AddReference appends a reference link to idea.
func (s *Store) AddReference(id, url, title, actor string) (*types.Idea, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &oapserrors.ValidationError{Field: "url", Reason: "reference URL cannot be empty"}
	}
	if strings.TrimSpace(title) == "" {
		return nil, &oapserrors.ValidationError{Field: "title", Reason: "reference title cannot be empty"}
	}
	return s.mutate(id, actor, false, func(idea *types.Idea) (string, string, string, error) {
		idea.References = append(idea.References, types.IdeaReference{URL: url, Title: title})
		return "reference_added", "", url, nil
	})
}

// AddTags merges tags into idea's tag set, deduplicated and sorted.
func (s *Store) AddTags(id string, tags []string, actor string) (*types.Idea, error) {
	return s.mutate(id, actor, true, func(idea *types.Idea) (string, string, string, error) {
		set := make(map[string]bool, len(idea.Tags)+len(tags))
		for _, t := range idea.Tags {
			set[t] = true
		}
		for _, t := range tags {
			set[t] = true
		}
		merged := make([]string, 0, len(set))
		for t := range set {
			merged = append(merged, t)
		}
		sort.Strings(merged)
		idea.Tags = merged
		return "tags_added", "", strings.Join(tags, ", "), nil
	})
}

// LinkIdeas unions relatedIDs into idea's related set, validating every
// target exists, dropping self-references, and sorting the result.
func (s *Store) LinkIdeas(id string, relatedIDs []string, actor string) (*types.Idea, error) {
	idx, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, rid := range relatedIDs {
		if !idx.exists(rid) {
			return nil, &oapserrors.NotFoundError{Kind: "idea", ID: rid}
		}
	}
	return s.mutate(id, actor, false, func(idea *types.Idea) (string, string, string, error) {
		set := make(map[string]bool, len(idea.RelatedIdeas)+len(relatedIDs))
		for _, r := range idea.RelatedIdeas {
			set[r] = true
		}
		for _, r := range relatedIDs {
			set[r] = true
		}
		delete(set, id)
		merged := make([]string, 0, len(set))
		for r := range set {
			merged = append(merged, r)
		}
		sort.Strings(merged)
		idea.RelatedIdeas = merged
		return "ideas_linked", "", strings.Join(relatedIDs, ", "), nil
	})
}

// Archive is a convenience wrapper around UpdateStatus(IdeaArchived).
func (s *Store) Archive(id, actor string) (*types.Idea, error) {
	return s.UpdateStatus(id, types.IdeaArchived, actor)
}

// RebuildIndex rebuilds the index from the filesystem and returns the
// number of ideas found.
func (s *Store) RebuildIndex() (int, error) {
	var count int
	err := s.withLock(func() error {
		entries, err := s.rebuildFromDisk()
		if err != nil {
			return err
		}
		count = len(entries)
		return s.writeIndex(&Index{Ideas: entries})
	})
	return count, err
}
