package query

import "github.com/oaps-dev/oaps/internal/types"

// Coverage reports which requirements are covered by a passing test
// (spec §4.7: covered means referenced by a test whose last_result is
// pass), broken down by test method and requirement type.
func (e *Engine) Coverage(specID string) (*types.CoverageReport, error) {
	reqs, err := e.requirements(specID)
	if err != nil {
		return nil, err
	}
	tests, err := e.tests(specID)
	if err != nil {
		return nil, err
	}

	passingByReq := make(map[string][]string)
	for _, t := range tests {
		if t.LastResult != types.ResultPass {
			continue
		}
		for _, reqID := range t.TestsRequirements {
			passingByReq[reqID] = append(passingByReq[reqID], t.ID)
		}
	}

	validReqIDs := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		validReqIDs[r.ID] = true
	}

	report := &types.CoverageReport{
		SpecID:             specID,
		RequirementToTests: make(map[string][]string),
	}
	for _, r := range reqs {
		report.TotalRequirements++
		if passing := passingByReq[r.ID]; len(passing) > 0 {
			report.CoveredRequirements++
			report.RequirementToTests[r.ID] = passing
		}
	}
	report.OverallCoverage = percentage(report.CoveredRequirements, report.TotalRequirements)

	report.ByMethod = buildMethodCoverage(tests, validReqIDs)
	report.ByType = buildTypeCoverage(reqs, passingByReq)
	return report, nil
}

func buildMethodCoverage(tests []types.Test, validReqIDs map[string]bool) []types.MethodCoverage {
	byMethod := make(map[types.TestMethod][]types.Test)
	var order []types.TestMethod
	for _, t := range tests {
		if _, ok := byMethod[t.Method]; !ok {
			order = append(order, t.Method)
		}
		byMethod[t.Method] = append(byMethod[t.Method], t)
	}

	var out []types.MethodCoverage
	for _, method := range order {
		methodTests := byMethod[method]
		mc := types.MethodCoverage{Method: method, TotalTests: len(methodTests)}
		covered := make(map[string]bool)
		for _, t := range methodTests {
			if t.LastResult != types.ResultPass {
				continue
			}
			mc.PassingTests++
			for _, reqID := range t.TestsRequirements {
				if validReqIDs[reqID] {
					covered[reqID] = true
				}
			}
		}
		mc.RequirementsCovered = len(covered)
		out = append(out, mc)
	}
	return out
}

func buildTypeCoverage(reqs []types.Requirement, passingByReq map[string][]string) []types.TypeCoverage {
	byType := make(map[types.RequirementType][]types.Requirement)
	var order []types.RequirementType
	for _, r := range reqs {
		if _, ok := byType[r.ReqType]; !ok {
			order = append(order, r.ReqType)
		}
		byType[r.ReqType] = append(byType[r.ReqType], r)
	}

	var out []types.TypeCoverage
	for _, reqType := range order {
		typeReqs := byType[reqType]
		tc := types.TypeCoverage{ReqType: reqType, TotalRequirements: len(typeReqs)}
		for _, r := range typeReqs {
			if len(passingByReq[r.ID]) > 0 {
				tc.CoveredRequirements++
			}
		}
		tc.CoveragePercentage = percentage(tc.CoveredRequirements, tc.TotalRequirements)
		out = append(out, tc)
	}
	return out
}

// Unverified returns every requirement with no covering (pass-only)
// test.
func (e *Engine) Unverified(specID string) ([]types.Requirement, error) {
	reqs, err := e.requirements(specID)
	if err != nil {
		return nil, err
	}
	tests, err := e.tests(specID)
	if err != nil {
		return nil, err
	}

	covered := make(map[string]bool)
	for _, t := range tests {
		if t.LastResult != types.ResultPass {
			continue
		}
		for _, reqID := range t.TestsRequirements {
			covered[reqID] = true
		}
	}

	var out []types.Requirement
	for _, r := range reqs {
		if !covered[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}
