package specstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/types"
)

// CreateOptions carries the optional fields create_spec accepts.
type CreateOptions struct {
	Slug       string // auto-generated from Title if empty
	Authors    []string
	Tags       []string
	Summary    string
	Version    string
	DependsOn  []string
	Extends    string
	Supersedes string
	Integrates []string
}

// perSpecIndexFile is the minimal index.json written inside each spec's
// own subdirectory, tracking its requirement/test/artifact ids.
type perSpecIndexFile struct {
	Requirements []string `json:"requirements"`
	Tests        []string `json:"tests"`
	Artifacts    []string `json:"artifacts"`
}

// CreateSpec validates and creates a new spec, its subdirectory, and an
// empty per-spec index.
func (s *Store) CreateSpec(title string, specType types.SpecType, opts CreateOptions) (*types.Spec, error) {
	if !specType.IsValid() {
		return nil, &oapserrors.ValidationError{Field: "spec_type", Reason: fmt.Sprintf("invalid spec type %q", specType)}
	}
	slug := opts.Slug
	if slug == "" {
		slug = types.GenerateSlug(title)
	}
	if !types.ValidSpecSlug(slug) {
		return nil, &oapserrors.ValidationError{Field: "slug", Reason: fmt.Sprintf("%q does not match the spec slug grammar", slug)}
	}

	rel := types.Relationships{
		DependsOn:  opts.DependsOn,
		Extends:    opts.Extends,
		Supersedes: opts.Supersedes,
		Integrates: opts.Integrates,
	}
	if err := validateRelationships(specType, rel); err != nil {
		return nil, err
	}
	if err := ValidateVersion(opts.Version); err != nil {
		return nil, err
	}

	var created *types.Spec
	err := s.withLock(func() error {
		idx, err := s.load()
		if err != nil {
			return err
		}
		if idx.findBySlug(slug) != nil {
			return &oapserrors.DuplicateError{Kind: "spec slug", Value: slug}
		}
		for _, dep := range opts.DependsOn {
			if idx.find(dep) == nil {
				return &oapserrors.ReferentialIntegrityError{Reason: fmt.Sprintf("depends_on references unknown spec %s", dep)}
			}
		}

		number := idx.nextNumber()
		id := types.FormatScopedID("SPEC", number)

		edges := idx.buildEdges(id, opts.DependsOn)
		if err := checkAcyclic(edges); err != nil {
			return err
		}

		now := time.Now().UTC()
		spec := &types.Spec{
			ID:            id,
			Slug:          slug,
			Title:         title,
			SpecType:      specType,
			Status:        types.SpecDraft,
			Created:       now,
			Updated:       now,
			Authors:       opts.Authors,
			Tags:          opts.Tags,
			Summary:       opts.Summary,
			Version:       opts.Version,
			Relationships: rel,
		}

		dir := s.specDir(id, slug)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := writePerSpecIndex(dir, &perSpecIndexFile{
			Requirements: []string{}, Tests: []string{}, Artifacts: []string{},
		}); err != nil {
			return err
		}
		if err := writeSpecMeta(dir, types.FromSpec(*spec)); err != nil {
			return err
		}

		idx.Specs = append(idx.Specs, types.FromSpec(*spec))
		if err := s.writeIndex(idx); err != nil {
			return err
		}
		created = spec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func writePerSpecIndex(dir string, pi *perSpecIndexFile) error {
	data, err := json.MarshalIndent(pi, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, perSpecIndex), data, 0o644)
}

// writeSpecMeta persists a spec's own metadata inside its subdirectory,
// the on-disk source of truth RebuildIndex reconstructs the root index
// from (spec §3 invariant 3: index/filesystem parity).
func writeSpecMeta(dir string, m types.SpecMetadata) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, specMetaFile), data, 0o644)
}

// GetSpec reads a spec's on-disk summary and augments it with the
// computed dependents relationship.
func (s *Store) GetSpec(id string) (*types.Spec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.load()
	if err != nil {
		return nil, err
	}
	m := idx.find(id)
	if m == nil {
		return nil, &oapserrors.NotFoundError{Kind: "spec", ID: id}
	}
	spec := m.ToSpec()
	spec.Relationships.Dependents = idx.dependents(id)
	return &spec, nil
}

// ListOptions filters ListSpecs results.
type ListOptions struct {
	Status          types.SpecStatus
	SpecType        types.SpecType
	Tags            []string
	IncludeArchived bool
}

// ListSpecs returns spec summaries matching opts. Archived
// (deprecated) specs are excluded unless IncludeArchived is set.
func (s *Store) ListSpecs(opts ListOptions) ([]*types.Spec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []*types.Spec
	for _, m := range idx.Specs {
		if !opts.IncludeArchived && m.Status == types.SpecDeprecated && opts.Status != types.SpecDeprecated {
			continue
		}
		if opts.Status != "" && m.Status != opts.Status {
			continue
		}
		if opts.SpecType != "" && m.SpecType != opts.SpecType {
			continue
		}
		if len(opts.Tags) > 0 && !hasAllTags(m.Tags, opts.Tags) {
			continue
		}
		spec := m.ToSpec()
		spec.Relationships.Dependents = idx.dependents(m.ID)
		out = append(out, &spec)
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

// UpdateOptions carries mutable spec fields; nil means "leave
// unchanged". Any relationship change re-validates the full DAG.
type UpdateOptions struct {
	Title      *string
	Status     *types.SpecStatus
	Authors    *[]string
	Tags       *[]string
	Summary    *string
	Version    *string
	DependsOn  *[]string
	Extends    *string
	Supersedes *string
	Integrates *[]string
}

// UpdateSpec applies opts to an existing spec and re-validates.
func (s *Store) UpdateSpec(id string, opts UpdateOptions) (*types.Spec, error) {
	var updated *types.Spec
	err := s.withLock(func() error {
		idx, err := s.load()
		if err != nil {
			return err
		}
		m := idx.find(id)
		if m == nil {
			return &oapserrors.NotFoundError{Kind: "spec", ID: id}
		}
		spec := m.ToSpec()

		relChanged := false
		if opts.Title != nil {
			spec.Title = *opts.Title
		}
		if opts.Status != nil {
			if !opts.Status.IsValid() {
				return &oapserrors.ValidationError{Field: "status", Reason: fmt.Sprintf("invalid status %q", *opts.Status)}
			}
			spec.Status = *opts.Status
		}
		if opts.Authors != nil {
			spec.Authors = *opts.Authors
		}
		if opts.Tags != nil {
			spec.Tags = *opts.Tags
		}
		if opts.Summary != nil {
			spec.Summary = *opts.Summary
		}
		if opts.Version != nil {
			if err := ValidateVersion(*opts.Version); err != nil {
				return err
			}
			spec.Version = *opts.Version
		}
		if opts.DependsOn != nil {
			spec.Relationships.DependsOn = *opts.DependsOn
			relChanged = true
		}
		if opts.Extends != nil {
			spec.Relationships.Extends = *opts.Extends
			relChanged = true
		}
		if opts.Supersedes != nil {
			spec.Relationships.Supersedes = *opts.Supersedes
			relChanged = true
		}
		if opts.Integrates != nil {
			spec.Relationships.Integrates = *opts.Integrates
			relChanged = true
		}

		if err := validateRelationships(spec.SpecType, spec.Relationships); err != nil {
			return err
		}
		if relChanged {
			for _, dep := range spec.Relationships.DependsOn {
				if dep != id && idx.find(dep) == nil {
					return &oapserrors.ReferentialIntegrityError{Reason: fmt.Sprintf("depends_on references unknown spec %s", dep)}
				}
			}
			edges := idx.buildEdges(id, spec.Relationships.DependsOn)
			if err := checkAcyclic(edges); err != nil {
				return err
			}
		}

		spec.Updated = time.Now().UTC()
		*m = types.FromSpec(spec)
		if err := writeSpecMeta(s.specDir(id, m.Slug), *m); err != nil {
			return err
		}
		if err := s.writeIndex(idx); err != nil {
			return err
		}
		spec.Relationships.Dependents = idx.dependents(id)
		updated = &spec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RenameSpec renames only the slug and moves the spec's subdirectory,
// preserving its id. Renaming to the current slug is a no-op; renaming
// to an existing slug fails.
func (s *Store) RenameSpec(id, newSlug string) (*types.Spec, error) {
	if !types.ValidSpecSlug(newSlug) {
		return nil, &oapserrors.ValidationError{Field: "slug", Reason: fmt.Sprintf("%q does not match the spec slug grammar", newSlug)}
	}
	var result *types.Spec
	err := s.withLock(func() error {
		idx, err := s.load()
		if err != nil {
			return err
		}
		m := idx.find(id)
		if m == nil {
			return &oapserrors.NotFoundError{Kind: "spec", ID: id}
		}
		if m.Slug == newSlug {
			spec := m.ToSpec()
			spec.Relationships.Dependents = idx.dependents(id)
			result = &spec
			return nil
		}
		if idx.findBySlug(newSlug) != nil {
			return &oapserrors.DuplicateError{Kind: "spec slug", Value: newSlug}
		}

		oldDir := s.specDir(id, m.Slug)
		newDir := s.specDir(id, newSlug)
		if err := os.Rename(oldDir, newDir); err != nil {
			return err
		}
		m.Slug = newSlug
		m.Updated = time.Now().UTC()
		if err := writeSpecMeta(newDir, *m); err != nil {
			return err
		}
		if err := s.writeIndex(idx); err != nil {
			return err
		}
		spec := m.ToSpec()
		spec.Relationships.Dependents = idx.dependents(id)
		result = &spec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteSpec removes a spec's subdirectory and index entry. Unless
// force is true, it fails when another spec lists id in its depends_on.
func (s *Store) DeleteSpec(id string, force bool) error {
	return s.withLock(func() error {
		idx, err := s.load()
		if err != nil {
			return err
		}
		m := idx.find(id)
		if m == nil {
			return &oapserrors.NotFoundError{Kind: "spec", ID: id}
		}
		if !force {
			if deps := idx.dependents(id); len(deps) > 0 {
				return &oapserrors.ReferentialIntegrityError{
					Reason:      fmt.Sprintf("spec %s is depended on by other specs", id),
					ReferringBy: deps,
				}
			}
		}
		if err := os.RemoveAll(s.specDir(id, m.Slug)); err != nil {
			return err
		}
		remaining := idx.Specs[:0]
		for _, e := range idx.Specs {
			if e.ID != id {
				remaining = append(remaining, e)
			}
		}
		idx.Specs = remaining
		return s.writeIndex(idx)
	})
}

// ArchiveSpec is an alias for UpdateSpec(status=deprecated).
func (s *Store) ArchiveSpec(id string) (*types.Spec, error) {
	status := types.SpecDeprecated
	return s.UpdateSpec(id, UpdateOptions{Status: &status})
}

// RebuildIndex reconstructs the root index from each spec subdirectory's
// persisted metadata sidecar (spec.json); a subdirectory without a
// readable one is skipped.
func (s *Store) RebuildIndex() error {
	return s.withLock(func() error {
		entries, err := os.ReadDir(s.specsPath())
		if os.IsNotExist(err) {
			return s.writeIndex(&rootIndex{Specs: []types.SpecMetadata{}})
		}
		if err != nil {
			return err
		}
		var specs []types.SpecMetadata
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			metaPath := filepath.Join(s.specsPath(), e.Name(), specMetaFile)
			data, err := os.ReadFile(metaPath)
			if err != nil {
				continue
			}
			var m types.SpecMetadata
			if err := json.Unmarshal(data, &m); err != nil {
				continue
			}
			specs = append(specs, m)
		}
		if specs == nil {
			specs = []types.SpecMetadata{}
		}
		return s.writeIndex(&rootIndex{Specs: specs})
	})
}
