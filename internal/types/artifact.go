// Package types defines the value objects that make up the oaps data
// model (spec §3). Every type here is an immutable record at the API
// surface: mutations return new values rather than mutating in place.
package types

import "time"

// ArtifactStatus is the lifecycle status of an Artifact.
type ArtifactStatus string

const (
	StatusDraft       ArtifactStatus = "draft"
	StatusReview      ArtifactStatus = "review"
	StatusComplete    ArtifactStatus = "complete"
	StatusSuperseded  ArtifactStatus = "superseded"
	StatusRetracted   ArtifactStatus = "retracted"
)

// IsValid reports whether s is one of the closed set of artifact statuses.
func (s ArtifactStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusComplete, StatusSuperseded, StatusRetracted:
		return true
	default:
		return false
	}
}

// Artifact is a durable knowledge record: a decision, review, diagram, or
// other registry-defined type, with either a Markdown body or a binary
// content file plus a YAML sidecar.
type Artifact struct {
	ID              string
	Type            string // registry type name, e.g. "decision"
	Subtype         string
	Title           string
	Status          ArtifactStatus
	Created         time.Time
	Updated         *time.Time
	Author          string
	Reviewers       []string
	References      []string
	Supersedes      string
	SupersededBy    string
	Tags            []string
	Summary         string
	TypeFields      map[string]any
	FilePath        string // authoritative on-disk location, store-relative
	MetadataFilePath string // sidecar path for binary artifacts only
}

// IsBinary reports whether the artifact carries a metadata sidecar (and
// therefore has no Markdown body to read directly).
func (a *Artifact) IsBinary() bool {
	return a.MetadataFilePath != ""
}

// ArtifactMetadata is the serializable form of an Artifact written to
// disk: the same fields minus file paths, which are derived from the
// artifact's location rather than stored redundantly.
type ArtifactMetadata struct {
	ID           string         `yaml:"id"`
	Type         string         `yaml:"type"`
	Subtype      string         `yaml:"subtype,omitempty"`
	Title        string         `yaml:"title"`
	Status       ArtifactStatus `yaml:"status"`
	Created      time.Time      `yaml:"created"`
	Updated      *time.Time     `yaml:"updated,omitempty"`
	Author       string         `yaml:"author"`
	Reviewers    []string       `yaml:"reviewers,omitempty"`
	References   []string       `yaml:"references,omitempty"`
	Supersedes   string         `yaml:"supersedes,omitempty"`
	SupersededBy string         `yaml:"superseded_by,omitempty"`
	Tags         []string       `yaml:"tags,omitempty"`
	Summary      string         `yaml:"summary,omitempty"`
	TypeFields   map[string]any `yaml:",inline"`
}
