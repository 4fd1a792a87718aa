package query

import "github.com/oaps-dev/oaps/internal/types"

// Progress reports implementation state across a spec's requirements
// (spec §4.7: implemented = status in {implemented, verified}; verified
// = status == verified).
func (e *Engine) Progress(specID string) (*types.ProgressReport, error) {
	reqs, err := e.requirements(specID)
	if err != nil {
		return nil, err
	}

	byType := make(map[types.RequirementType]*types.TypeProgress)
	var order []types.RequirementType

	report := &types.ProgressReport{SpecID: specID}
	for _, r := range reqs {
		tp, ok := byType[r.ReqType]
		if !ok {
			tp = &types.TypeProgress{ReqType: r.ReqType}
			byType[r.ReqType] = tp
			order = append(order, r.ReqType)
		}
		tp.Total++
		report.TotalRequirements++
		if isImplemented(r.Status) {
			tp.Implemented++
			report.ImplementedRequirements++
		}
		if r.Status == types.ReqVerified {
			tp.Verified++
			report.VerifiedRequirements++
		}
	}

	report.OverallPercentage = percentage(report.ImplementedRequirements, report.TotalRequirements)
	for _, rt := range order {
		tp := byType[rt]
		tp.Percentage = percentage(tp.Implemented, tp.Total)
		report.ByType = append(report.ByType, *tp)
	}
	return report, nil
}

func isImplemented(s types.RequirementStatus) bool {
	return s == types.ReqImplemented || s == types.ReqVerified
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func (e *Engine) requirements(specID string) ([]types.Requirement, error) {
	reqStore, err := e.reqStore(specID)
	if err != nil {
		return nil, err
	}
	return reqStore.List()
}

func (e *Engine) tests(specID string) ([]types.Test, error) {
	testStore, err := e.testStore(specID)
	if err != nil {
		return nil, err
	}
	return testStore.List()
}
