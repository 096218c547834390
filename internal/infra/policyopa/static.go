package policyopa

import (
	"context"
	"fmt"

	"soundcheck/internal/domain"
)

// StaticEvaluator returns a fixed risk for every input. It is the
// no-bundle fallback, mirroring the store's no-db mode: the service stays
// usable without a policy deployment.
type StaticEvaluator struct {
	Risk int
}

func (s StaticEvaluator) Evaluate(_ context.Context, _ domain.PolicyInput) (domain.RiskEvaluation, error) {
	if s.Risk < 0 || s.Risk > 100 {
		return domain.RiskEvaluation{}, fmt.Errorf("%w: static risk %d", domain.ErrInvalidScore, s.Risk)
	}
	return domain.RiskEvaluation{
		BundleID: "static",
		Result:   domain.RiskResult{Risk: s.Risk},
	}, nil
}
