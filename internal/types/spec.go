package types

import "time"

// SpecType is the structural category of a Spec.
type SpecType string

const (
	SpecFeature     SpecType = "feature"
	SpecEnhancement SpecType = "enhancement"
	SpecIntegration SpecType = "integration"
	SpecMaintenance SpecType = "maintenance"
)

func (t SpecType) IsValid() bool {
	switch t {
	case SpecFeature, SpecEnhancement, SpecIntegration, SpecMaintenance:
		return true
	default:
		return false
	}
}

// SpecStatus is the lifecycle status of a Spec.
type SpecStatus string

const (
	SpecDraft      SpecStatus = "draft"
	SpecApproved   SpecStatus = "approved"
	SpecDeprecated SpecStatus = "deprecated"
)

func (s SpecStatus) IsValid() bool {
	switch s {
	case SpecDraft, SpecApproved, SpecDeprecated:
		return true
	default:
		return false
	}
}

// Relationships holds a Spec's edges to other specs. Dependents is always
// computed from the store, never persisted (spec §4.4 Get).
type Relationships struct {
	DependsOn  []string
	Extends    string
	Supersedes string
	Integrates []string
	Dependents []string
}

// Spec is a structured specification document with its own subdirectory
// containing requirements, tests, and nested artifacts.
type Spec struct {
	ID             string
	Slug           string
	Title          string
	SpecType       SpecType
	Status         SpecStatus
	Created        time.Time
	Updated        time.Time
	Authors        []string
	Tags           []string
	Summary        string
	Version        string
	Relationships  Relationships
}

// SpecMetadata is the serializable on-disk form of a Spec (index.json
// summary entry), with Dependents omitted since it is always computed.
type SpecMetadata struct {
	ID         string     `json:"id"`
	Slug       string     `json:"slug"`
	Title      string     `json:"title"`
	SpecType   SpecType   `json:"spec_type"`
	Status     SpecStatus `json:"status"`
	Created    time.Time  `json:"created"`
	Updated    time.Time  `json:"updated"`
	Authors    []string   `json:"authors,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	Summary    string     `json:"summary,omitempty"`
	Version    string     `json:"version"`
	DependsOn  []string   `json:"depends_on,omitempty"`
	Extends    string     `json:"extends,omitempty"`
	Supersedes string     `json:"supersedes,omitempty"`
	Integrates []string   `json:"integrates,omitempty"`
}

// ToSpec converts a summary to the richer Spec value; Dependents is left
// empty and must be filled in by the caller (store Get/List compute it).
func (m SpecMetadata) ToSpec() Spec {
	return Spec{
		ID:       m.ID,
		Slug:     m.Slug,
		Title:    m.Title,
		SpecType: m.SpecType,
		Status:   m.Status,
		Created:  m.Created,
		Updated:  m.Updated,
		Authors:  m.Authors,
		Tags:     m.Tags,
		Summary:  m.Summary,
		Version:  m.Version,
		Relationships: Relationships{
			DependsOn:  m.DependsOn,
			Extends:    m.Extends,
			Supersedes: m.Supersedes,
			Integrates: m.Integrates,
		},
	}
}

// FromSpec converts a Spec back into its serializable summary.
func FromSpec(s Spec) SpecMetadata {
	return SpecMetadata{
		ID:         s.ID,
		Slug:       s.Slug,
		Title:      s.Title,
		SpecType:   s.SpecType,
		Status:     s.Status,
		Created:    s.Created,
		Updated:    s.Updated,
		Authors:    s.Authors,
		Tags:       s.Tags,
		Summary:    s.Summary,
		Version:    s.Version,
		DependsOn:  s.Relationships.DependsOn,
		Extends:    s.Relationships.Extends,
		Supersedes: s.Relationships.Supersedes,
		Integrates: s.Relationships.Integrates,
	}
}
