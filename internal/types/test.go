package types

import "time"

// TestMethod is how a Test verifies requirements.
type TestMethod string

const (
	TestUnit        TestMethod = "unit"
	TestIntegration TestMethod = "integration"
	TestE2E         TestMethod = "e2e"
	TestManual      TestMethod = "manual"
)

func (m TestMethod) IsValid() bool {
	switch m {
	case TestUnit, TestIntegration, TestE2E, TestManual:
		return true
	default:
		return false
	}
}

// TestStatus is the lifecycle status of a Test record.
type TestStatus string

const (
	TestProposed    TestStatus = "proposed"
	TestImplemented TestStatus = "implemented"
	TestObsolete    TestStatus = "obsolete"
)

func (s TestStatus) IsValid() bool {
	switch s {
	case TestProposed, TestImplemented, TestObsolete:
		return true
	default:
		return false
	}
}

// TestResult is the outcome of a Test's last run.
type TestResult string

const (
	ResultPass    TestResult = "pass"
	ResultFail    TestResult = "fail"
	ResultSkip    TestResult = "skip"
	ResultUnknown TestResult = "unknown"
)

func (r TestResult) IsValid() bool {
	switch r {
	case ResultPass, ResultFail, ResultSkip, ResultUnknown:
		return true
	default:
		return false
	}
}

// Test is a verification record pointing at zero or more requirements;
// its LastResult drives coverage computation.
type Test struct {
	ID                string     `json:"id"`
	SpecID            string     `json:"spec_id"`
	Title             string     `json:"title"`
	Method            TestMethod `json:"method"`
	Status            TestStatus `json:"status"`
	LastResult        TestResult `json:"last_result"`
	Created           time.Time  `json:"created"`
	Updated           time.Time  `json:"updated"`
	File              string     `json:"file,omitempty"`
	Function          string     `json:"function,omitempty"`
	TestsRequirements []string   `json:"tests_requirements,omitempty"`
}

// Covers reports whether this test's last result counts as coverage for
// reqID (spec §4.7: a test covers a requirement only when it references
// it AND its last result is "pass").
func (t *Test) Covers(reqID string) bool {
	if t.LastResult != ResultPass {
		return false
	}
	for _, id := range t.TestsRequirements {
		if id == reqID {
			return true
		}
	}
	return false
}
