package policyopa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"soundcheck/internal/domain"

	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
)

const defaultQuery = "data.soundcheck.policy.result"

// Engine evaluates the risk policy bundle. The bundle is compiled once and
// its hash pinned so every evaluation can be attributed to exact policy
// content.
type Engine struct {
	query      rego.PreparedEvalQuery
	bundleHash string
	bundleID   string
}

func NewEngineFromBundlePath(ctx context.Context, bundlePath string, bundleID string) (*Engine, error) {
	bundleHash, err := ComputeBundleHashFromPath(bundlePath)
	if err != nil {
		return nil, err
	}

	capabilities := ast.CapabilitiesForThisVersion()
	capabilities.Builtins = filterBuiltins(capabilities.Builtins)
	compiler := ast.NewCompiler().WithCapabilities(capabilities)

	r := rego.New(
		rego.Query(defaultQuery),
		rego.Compiler(compiler),
		rego.StrictBuiltinErrors(true),
		rego.Load([]string{bundlePath}, nil),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}

	return &Engine{
		query:      prepared,
		bundleHash: bundleHash,
		bundleID:   bundleID,
	}, nil
}

func (e *Engine) BundleHash() string {
	return e.bundleHash
}

func (e *Engine) Evaluate(ctx context.Context, input domain.PolicyInput) (domain.RiskEvaluation, error) {
	if e == nil {
		return domain.RiskEvaluation{}, errors.New("risk engine is nil")
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return domain.RiskEvaluation{}, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return domain.RiskEvaluation{}, errors.New("empty policy result")
	}
	raw := results[0].Expressions[0].Value
	result, err := decodeRiskResult(raw)
	if err != nil {
		return domain.RiskEvaluation{}, err
	}
	if result.Risk < 0 || result.Risk > 100 {
		return domain.RiskEvaluation{}, fmt.Errorf("%w: policy risk %d from bundle %s", domain.ErrInvalidScore, result.Risk, e.bundleID)
	}
	normalizeRiskResult(&result)
	return domain.RiskEvaluation{
		BundleID:   e.bundleID,
		BundleHash: e.bundleHash,
		Result:     result,
	}, nil
}

func decodeRiskResult(value any) (domain.RiskResult, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return domain.RiskResult{}, err
	}
	var result domain.RiskResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.RiskResult{}, err
	}
	return result, nil
}

func normalizeRiskResult(result *domain.RiskResult) {
	if result == nil {
		return
	}
	reasons := result.Reasons[:0]
	for _, reason := range result.Reasons {
		if reason.Code == "" {
			continue
		}
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool {
		return reasons[i].Code < reasons[j].Code
	})
	result.Reasons = reasons
}
