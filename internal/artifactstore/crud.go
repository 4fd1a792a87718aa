package artifactstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oaps-dev/oaps/internal/frontmatter"
	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/registry"
	"github.com/oaps-dev/oaps/internal/types"
	"github.com/oaps-dev/oaps/internal/validation"
)

// AddOptions carries every optional field add_artifact accepts. Content
// is mutually exclusive with SourcePath; when neither is supplied, text
// artifacts get an empty body and binary artifacts get a zero-byte file.
type AddOptions struct {
	Subtype    string
	Slug       string
	References []string
	Tags       []string
	Summary    string
	TypeFields map[string]any
	Content    []byte
	SourcePath string
}

// GetArtifact looks up a live artifact by id.
func (s *Store) GetArtifact(id string) (*types.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.load()
	if err != nil {
		return nil, err
	}
	entry := idx.findEntry(id)
	if entry == nil {
		return nil, &oapserrors.NotFoundError{Kind: "artifact", ID: id}
	}
	return summaryToArtifact(entry, s.basePath), nil
}

// ArtifactExists reports whether id resolves to a live entry.
func (s *Store) ArtifactExists(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.load()
	if err != nil {
		return false, err
	}
	return idx.findEntry(id) != nil, nil
}

// GetArtifactContent returns the raw file content: the Markdown body for
// text artifacts (front-matter included), the binary payload for binary
// ones.
func (s *Store) GetArtifactContent(id string) ([]byte, error) {
	art, err := s.GetArtifact(id)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(art.FilePath)
}

// ListArtifacts returns live artifacts filtered by any combination of
// type (name or prefix), status, and tag. An empty filter value matches
// everything.
func (s *Store) ListArtifacts(typeFilter, statusFilter, tagFilter string) ([]*types.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []*types.Artifact
	for _, e := range idx.Artifacts {
		if typeFilter != "" {
			t, _ := e["type"].(string)
			id, _ := e["id"].(string)
			prefix, _, _ := types.ParseArtifactID(id)
			if t != typeFilter && prefix != typeFilter {
				continue
			}
		}
		if statusFilter != "" {
			st, _ := e["status"].(string)
			if st != statusFilter {
				continue
			}
		}
		if tagFilter != "" {
			if !containsTag(e["tags"], tagFilter) {
				continue
			}
		}
		out = append(out, summaryToArtifact(e, s.basePath))
	}
	return out, nil
}

func containsTag(v any, tag string) bool {
	for _, t := range asStringSlice(v) {
		if t == tag {
			return true
		}
	}
	return false
}

// AddArtifact creates a new artifact of the type named by prefix.
func (s *Store) AddArtifact(prefix, title, author string, opts AddOptions) (*types.Artifact, error) {
	def, err := s.reg.ByPrefix(prefix)
	if err != nil {
		return nil, err
	}
	if !registry.ValidSubtype(def, opts.Subtype) {
		return nil, &oapserrors.ValidationError{Field: "subtype", Reason: fmt.Sprintf("%q is not a valid subtype for %s", opts.Subtype, def.Name)}
	}
	if opts.SourcePath != "" && opts.Content != nil {
		return nil, &oapserrors.ValidationError{Field: "content", Reason: "content and source path are mutually exclusive"}
	}

	var created *types.Artifact
	err = s.withLock(func() error {
		idx, err := s.load()
		if err != nil {
			return err
		}
		number := idx.nextNumber(prefix)
		id := types.FormatArtifactID(prefix, number)

		slug := opts.Slug
		if slug == "" {
			slug = types.GenerateSlug(title)
		}

		ext := "md"
		if def.Category == registry.Binary {
			ext = binaryExtension(def, opts.SourcePath)
		}

		now := time.Now().UTC()
		filename := fmt.Sprintf("%s-%s-%s.%s", now.Format("20060102150405"), id, slug, ext)
		if err := os.MkdirAll(s.artifactsPath(), 0o755); err != nil {
			return err
		}
		artifactPath := filepath.Join(s.artifactsPath(), filename)

		art := &types.Artifact{
			ID:         id,
			Type:       def.Name,
			Subtype:    opts.Subtype,
			Title:      title,
			Status:     types.StatusDraft,
			Created:    now,
			Author:     author,
			References: opts.References,
			Tags:       opts.Tags,
			Summary:    opts.Summary,
			TypeFields: opts.TypeFields,
			FilePath:   artifactPath,
		}

		if err := registry.ValidateTypeFields(def, art.TypeFields); err != nil {
			return err
		}

		if def.Category == registry.Binary {
			if err := writeBinaryContent(artifactPath, opts.SourcePath, opts.Content); err != nil {
				return err
			}
			sidecarPath := artifactPath + sidecarSuffix
			art.MetadataFilePath = sidecarPath
			if err := writeSidecarFile(sidecarPath, art); err != nil {
				return err
			}
		} else {
			body := string(opts.Content)
			if err := writeFrontmatterFile(artifactPath, art, body); err != nil {
				return err
			}
		}

		idx.Artifacts = append(idx.Artifacts, artifactToSummary(art, s.basePath))
		if err := s.writeIndex(idx); err != nil {
			return err
		}
		created = art
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func binaryExtension(def registry.TypeDefinition, sourcePath string) string {
	if sourcePath != "" {
		ext := strings.TrimPrefix(filepath.Ext(sourcePath), ".")
		if ext != "" {
			return ext
		}
	}
	if len(def.Formats) > 0 {
		return def.Formats[0]
	}
	return "bin"
}

func writeBinaryContent(destPath, sourcePath string, content []byte) error {
	if sourcePath != "" {
		return copyFile(sourcePath, destPath)
	}
	return os.WriteFile(destPath, content, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

func writeFrontmatterFile(path string, a *types.Artifact, body string) error {
	text, err := frontmatter.Serialize(artifactToMetadataMap(a), body)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

func writeSidecarFile(path string, a *types.Artifact) error {
	text, err := frontmatter.SerializeSidecar(artifactToMetadataMap(a))
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

// UpdateOptions carries the mutable fields update_artifact accepts. Nil
// pointers/maps mean "leave unchanged"; TypeFields is merged per-key
// with the existing map, never replaced wholesale.
type UpdateOptions struct {
	Title      *string
	Content    *string
	Subtype    *string
	Status     *types.ArtifactStatus
	References *[]string
	Tags       *[]string
	Summary    *string
	TypeFields map[string]any
}

// UpdateArtifact applies opts to an existing artifact, re-validates, and
// rewrites its file in place.
func (s *Store) UpdateArtifact(id string, opts UpdateOptions) (*types.Artifact, error) {
	var updated *types.Artifact
	err := s.withLock(func() error {
		idx, err := s.load()
		if err != nil {
			return err
		}
		entry := idx.findEntry(id)
		if entry == nil {
			return &oapserrors.NotFoundError{Kind: "artifact", ID: id}
		}
		art := summaryToArtifact(entry, s.basePath)

		if opts.Status != nil {
			if !opts.Status.IsValid() {
				return &oapserrors.ValidationError{Field: "status", Reason: fmt.Sprintf("invalid status %q", *opts.Status)}
			}
			art.Status = *opts.Status
		}
		if opts.Title != nil {
			art.Title = *opts.Title
		}
		if opts.Subtype != nil {
			art.Subtype = *opts.Subtype
		}
		if opts.References != nil {
			art.References = *opts.References
		}
		if opts.Tags != nil {
			art.Tags = *opts.Tags
		}
		if opts.Summary != nil {
			art.Summary = *opts.Summary
		}
		merged := map[string]any{}
		for k, v := range art.TypeFields {
			merged[k] = v
		}
		for k, v := range opts.TypeFields {
			merged[k] = v
		}
		art.TypeFields = merged
		now := time.Now().UTC()
		art.Updated = &now

		def, ok := s.reg.ByName(art.Type)
		if !ok {
			return &oapserrors.TypeNotRegisteredError{Prefix: art.Type}
		}
		if opts.Subtype != nil && !registry.ValidSubtype(def, art.Subtype) {
			return &oapserrors.ValidationError{Field: "subtype", Reason: fmt.Sprintf("%q is not a valid subtype for %s", art.Subtype, def.Name)}
		}
		if verr := registry.ValidateTypeFields(def, art.TypeFields); verr != nil {
			return verr
		}

		if art.IsBinary() {
			if err := writeSidecarFile(art.MetadataFilePath, art); err != nil {
				return err
			}
			if opts.Content != nil {
				if err := os.WriteFile(art.FilePath, []byte(*opts.Content), 0o644); err != nil {
					return err
				}
			}
		} else {
			body := ""
			if opts.Content != nil {
				body = *opts.Content
			} else {
				_, existingBody, rerr := readFrontmatterFile(art.FilePath)
				if rerr != nil {
					return rerr
				}
				body = existingBody
			}
			if err := writeFrontmatterFile(art.FilePath, art, body); err != nil {
				return err
			}
		}

		for i, e := range idx.Artifacts {
			if eid, _ := e["id"].(string); eid == id {
				idx.Artifacts[i] = artifactToSummary(art, s.basePath)
				break
			}
		}
		if err := s.writeIndex(idx); err != nil {
			return err
		}
		updated = art
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteArtifact removes an artifact's files and index entry. Unless
// force is true, it fails when another live artifact references id.
func (s *Store) DeleteArtifact(id string, force bool) error {
	return s.withLock(func() error {
		idx, err := s.load()
		if err != nil {
			return err
		}
		entry := idx.findEntry(id)
		if entry == nil {
			return &oapserrors.NotFoundError{Kind: "artifact", ID: id}
		}
		if err := validation.NotReferenced(id, force, idx.referencesTo); err != nil {
			return err
		}
		art := summaryToArtifact(entry, s.basePath)
		_ = os.Remove(art.FilePath)
		if art.MetadataFilePath != "" {
			_ = os.Remove(art.MetadataFilePath)
		}

		remaining := idx.Artifacts[:0]
		for _, e := range idx.Artifacts {
			if eid, _ := e["id"].(string); eid != id {
				remaining = append(remaining, e)
			}
		}
		idx.Artifacts = remaining
		return s.writeIndex(idx)
	})
}

// SupersedeArtifact marks old as superseded by newID. Both must share a
// registry type, and old must not already be superseded.
func (s *Store) SupersedeArtifact(oldID, newID string) (oldArt, newArt *types.Artifact, err error) {
	err = s.withLock(func() error {
		idx, err := s.load()
		if err != nil {
			return err
		}
		oldEntry := idx.findEntry(oldID)
		if oldEntry == nil {
			return &oapserrors.NotFoundError{Kind: "artifact", ID: oldID}
		}
		newEntry := idx.findEntry(newID)
		if newEntry == nil {
			return &oapserrors.NotFoundError{Kind: "artifact", ID: newID}
		}
		old := summaryToArtifact(oldEntry, s.basePath)
		nw := summaryToArtifact(newEntry, s.basePath)

		guard := validation.Chain(validation.ForSupersede(), validation.SameType(nw))
		if err := guard(oldID, old); err != nil {
			return err
		}
		if nw.Supersedes == oldID && old.Supersedes == newID {
			return &oapserrors.SupersessionError{Reason: fmt.Sprintf("circular supersession detected between %s and %s", oldID, newID)}
		}

		now := time.Now().UTC()
		old.Status = types.StatusSuperseded
		old.SupersededBy = newID
		old.Updated = &now
		nw.Supersedes = oldID
		nw.Updated = &now

		if err := s.rewriteArtifactMetadata(old); err != nil {
			return err
		}
		if err := s.rewriteArtifactMetadata(nw); err != nil {
			return err
		}

		rebuilt, err := s.rebuildFromDisk()
		if err != nil {
			return err
		}
		idx.Artifacts = rebuilt
		if err := s.writeIndex(idx); err != nil {
			return err
		}

		oldEntry2 := idx.findEntry(oldID)
		newEntry2 := idx.findEntry(newID)
		oldArt = summaryToArtifact(oldEntry2, s.basePath)
		newArt = summaryToArtifact(newEntry2, s.basePath)
		return nil
	})
	return oldArt, newArt, err
}

// rewriteArtifactMetadata rewrites art's metadata block in place,
// preserving its body (text) or leaving its binary payload untouched.
func (s *Store) rewriteArtifactMetadata(art *types.Artifact) error {
	if art.IsBinary() {
		return writeSidecarFile(art.MetadataFilePath, art)
	}
	_, body, err := readFrontmatterFile(art.FilePath)
	if err != nil {
		return err
	}
	return writeFrontmatterFile(art.FilePath, art, body)
}

// RetractArtifact sets status=retracted, recording reason in type_fields
// under "retraction_reason" when supplied. Retracted artifacts are kept,
// not deleted.
func (s *Store) RetractArtifact(id, reason string) (*types.Artifact, error) {
	current, err := s.GetArtifact(id)
	if err != nil {
		return nil, err
	}
	if err := validation.ForRetract()(id, current); err != nil {
		return nil, err
	}

	status := types.StatusRetracted
	opts := UpdateOptions{Status: &status}
	if reason != "" {
		opts.TypeFields = map[string]any{"retraction_reason": reason}
	}
	return s.UpdateArtifact(id, opts)
}

// RebuildIndex discards the cached index and reconstructs it from the
// files under artifacts/.
func (s *Store) RebuildIndex() error {
	return s.withLock(func() error {
		artifacts, err := s.rebuildFromDisk()
		if err != nil {
			return err
		}
		return s.writeIndex(&Index{Artifacts: artifacts})
	})
}
