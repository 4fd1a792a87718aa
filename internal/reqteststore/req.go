package reqteststore

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/types"
)

const requirementsFile = "requirements.jsonl"

// RequirementStore owns one spec's requirements.jsonl.
type RequirementStore struct {
	specDir string
	specID  string
}

// NewRequirementStore returns a handle onto the requirement sub-store
// for the spec rooted at specDir.
func NewRequirementStore(specDir, specID string) *RequirementStore {
	return &RequirementStore{specDir: specDir, specID: specID}
}

func (s *RequirementStore) path() string { return filepath.Join(s.specDir, requirementsFile) }

func (s *RequirementStore) readAll() ([]types.Requirement, error) {
	lines, err := readJSONLines(s.path())
	if err != nil {
		return nil, err
	}
	out := make([]types.Requirement, 0, len(lines))
	for _, line := range lines {
		var r types.Requirement
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, wrapFormatErr(s.path(), err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *RequirementStore) writeAll(reqs []types.Requirement) error {
	lines := make([]string, 0, len(reqs))
	for _, r := range reqs {
		line, err := encodeLine(r)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}
	return writeJSONLines(s.path(), lines)
}

// List returns every requirement in the spec, insertion order.
func (s *RequirementStore) List() ([]types.Requirement, error) {
	return s.readAll()
}

// Get returns a single requirement by id.
func (s *RequirementStore) Get(id string) (*types.Requirement, error) {
	reqs, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for i := range reqs {
		if reqs[i].ID == id {
			return &reqs[i], nil
		}
	}
	return nil, &oapserrors.NotFoundError{Kind: "requirement", ID: id}
}

// Exists reports whether id resolves to a live requirement.
func (s *RequirementStore) Exists(id string) (bool, error) {
	_, err := s.Get(id)
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*oapserrors.NotFoundError); ok {
		return false, nil
	}
	return false, err
}

// Create appends a new requirement with a monotonically assigned id.
func (s *RequirementStore) Create(reqType types.RequirementType, title, description, author string) (*types.Requirement, error) {
	if !reqType.IsValid() {
		return nil, &oapserrors.ValidationError{Field: "req_type", Reason: "invalid requirement type"}
	}
	reqs, err := s.readAll()
	if err != nil {
		return nil, err
	}
	number := 1
	for _, r := range reqs {
		if _, n, ok := types.ParseArtifactID(r.ID); ok && n >= number {
			number = n + 1
		}
	}
	now := time.Now().UTC()
	req := types.Requirement{
		ID:          types.FormatScopedID("REQ", number),
		SpecID:      s.specID,
		ReqType:     reqType,
		Title:       title,
		Description: description,
		Status:      types.ReqProposed,
		Created:     now,
		Updated:     now,
		Author:      author,
	}
	reqs = append(reqs, req)
	if err := s.writeAll(reqs); err != nil {
		return nil, err
	}
	return &req, nil
}

// RequirementUpdate carries mutable requirement fields; nil means
// "leave unchanged".
type RequirementUpdate struct {
	Title              *string
	Description        *string
	Status             *types.RequirementStatus
	Rationale          *string
	AcceptanceCriteria *[]string
	VerifiedBy         *[]string
	DependsOn          *[]string
	Tags               *[]string
}

// Update applies u to the requirement named by id.
func (s *RequirementStore) Update(id string, u RequirementUpdate) (*types.Requirement, error) {
	reqs, err := s.readAll()
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range reqs {
		if reqs[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, &oapserrors.NotFoundError{Kind: "requirement", ID: id}
	}
	r := &reqs[idx]
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Status != nil {
		if !u.Status.IsValid() {
			return nil, &oapserrors.ValidationError{Field: "status", Reason: "invalid requirement status"}
		}
		r.Status = *u.Status
	}
	if u.Rationale != nil {
		r.Rationale = *u.Rationale
	}
	if u.AcceptanceCriteria != nil {
		r.AcceptanceCriteria = *u.AcceptanceCriteria
	}
	if u.VerifiedBy != nil {
		r.VerifiedBy = *u.VerifiedBy
	}
	if u.DependsOn != nil {
		r.DependsOn = *u.DependsOn
	}
	if u.Tags != nil {
		r.Tags = *u.Tags
	}
	r.Updated = time.Now().UTC()

	if err := s.writeAll(reqs); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes the requirement named by id.
func (s *RequirementStore) Delete(id string) error {
	reqs, err := s.readAll()
	if err != nil {
		return err
	}
	out := reqs[:0]
	found := false
	for _, r := range reqs {
		if r.ID == id {
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		return &oapserrors.NotFoundError{Kind: "requirement", ID: id}
	}
	return s.writeAll(out)
}
