package reqteststore

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/oaps-dev/oaps/internal/oapserrors"
	"github.com/oaps-dev/oaps/internal/types"
)

const testsFile = "tests.jsonl"

// TestStore owns one spec's tests.jsonl.
type TestStore struct {
	specDir string
	specID  string
}

// NewTestStore returns a handle onto the test sub-store for the spec
// rooted at specDir.
func NewTestStore(specDir, specID string) *TestStore {
	return &TestStore{specDir: specDir, specID: specID}
}

func (s *TestStore) path() string { return filepath.Join(s.specDir, testsFile) }

func (s *TestStore) readAll() ([]types.Test, error) {
	lines, err := readJSONLines(s.path())
	if err != nil {
		return nil, err
	}
	out := make([]types.Test, 0, len(lines))
	for _, line := range lines {
		var t types.Test
		if err := json.Unmarshal([]byte(line), &t); err != nil {
			return nil, wrapFormatErr(s.path(), err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *TestStore) writeAll(tests []types.Test) error {
	lines := make([]string, 0, len(tests))
	for _, t := range tests {
		line, err := encodeLine(t)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}
	return writeJSONLines(s.path(), lines)
}

// List returns every test in the spec, insertion order.
func (s *TestStore) List() ([]types.Test, error) {
	return s.readAll()
}

// Get returns a single test by id.
func (s *TestStore) Get(id string) (*types.Test, error) {
	tests, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for i := range tests {
		if tests[i].ID == id {
			return &tests[i], nil
		}
	}
	return nil, &oapserrors.NotFoundError{Kind: "test", ID: id}
}

// Exists reports whether id resolves to a live test.
func (s *TestStore) Exists(id string) (bool, error) {
	_, err := s.Get(id)
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*oapserrors.NotFoundError); ok {
		return false, nil
	}
	return false, err
}

// Create appends a new test with a monotonically assigned id.
func (s *TestStore) Create(method types.TestMethod, title string, testsRequirements []string) (*types.Test, error) {
	if !method.IsValid() {
		return nil, &oapserrors.ValidationError{Field: "method", Reason: "invalid test method"}
	}
	tests, err := s.readAll()
	if err != nil {
		return nil, err
	}
	number := 1
	for _, t := range tests {
		if _, n, ok := types.ParseArtifactID(t.ID); ok && n >= number {
			number = n + 1
		}
	}
	now := time.Now().UTC()
	test := types.Test{
		ID:                types.FormatScopedID("TEST", number),
		SpecID:            s.specID,
		Title:             title,
		Method:            method,
		Status:            types.TestProposed,
		LastResult:        types.ResultUnknown,
		Created:           now,
		Updated:           now,
		TestsRequirements: testsRequirements,
	}
	tests = append(tests, test)
	if err := s.writeAll(tests); err != nil {
		return nil, err
	}
	return &test, nil
}

// TestUpdate carries mutable test fields; nil means "leave unchanged".
type TestUpdate struct {
	Title             *string
	Status            *types.TestStatus
	LastResult        *types.TestResult
	File              *string
	Function          *string
	TestsRequirements *[]string
}

// Update applies u to the test named by id.
func (s *TestStore) Update(id string, u TestUpdate) (*types.Test, error) {
	tests, err := s.readAll()
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range tests {
		if tests[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, &oapserrors.NotFoundError{Kind: "test", ID: id}
	}
	t := &tests[idx]
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Status != nil {
		if !u.Status.IsValid() {
			return nil, &oapserrors.ValidationError{Field: "status", Reason: "invalid test status"}
		}
		t.Status = *u.Status
	}
	if u.LastResult != nil {
		if !u.LastResult.IsValid() {
			return nil, &oapserrors.ValidationError{Field: "last_result", Reason: "invalid test result"}
		}
		t.LastResult = *u.LastResult
	}
	if u.File != nil {
		t.File = *u.File
	}
	if u.Function != nil {
		t.Function = *u.Function
	}
	if u.TestsRequirements != nil {
		t.TestsRequirements = *u.TestsRequirements
	}
	t.Updated = time.Now().UTC()

	if err := s.writeAll(tests); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the test named by id.
func (s *TestStore) Delete(id string) error {
	tests, err := s.readAll()
	if err != nil {
		return err
	}
	out := tests[:0]
	found := false
	for _, t := range tests {
		if t.ID == id {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		return &oapserrors.NotFoundError{Kind: "test", ID: id}
	}
	return s.writeAll(out)
}
