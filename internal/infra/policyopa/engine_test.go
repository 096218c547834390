package policyopa

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"soundcheck/internal/domain"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	path := filepath.Join("..", "..", "policy", "bundles", "reference_v0")
	engine, err := NewEngineFromBundlePath(context.Background(), path, "reference_v0")
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func basePolicyInput() domain.PolicyInput {
	return domain.PolicyInput{
		Submission: domain.SubmissionFacts{
			Identifier:   "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
			UploaderID:   "uploader-1",
			TaperConsent: true,
		},
		Verification: domain.VerificationFacts{
			IntegrityPass:     true,
			AudioQualityScore: 90,
		},
	}
}

func TestEngineBaselineZeroRisk(t *testing.T) {
	engine := newEngine(t)

	evaluation, err := engine.Evaluate(context.Background(), basePolicyInput())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if evaluation.Result.Risk != 0 {
		t.Fatalf("expected zero risk for clean submission, got %d", evaluation.Result.Risk)
	}
	if len(evaluation.Result.Reasons) != 0 {
		t.Fatalf("expected no reasons, got %v", evaluation.Result.Reasons)
	}
	if evaluation.BundleHash == "" {
		t.Fatalf("expected bundle hash to be set")
	}
	if evaluation.BundleID != "reference_v0" {
		t.Fatalf("expected bundle id reference_v0, got %s", evaluation.BundleID)
	}
}

func TestEngineDeterministic(t *testing.T) {
	engine := newEngine(t)
	input := basePolicyInput()
	input.Submission.TakedownMatch = true

	first, err := engine.Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("evaluate first: %v", err)
	}
	second, err := engine.Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("evaluate second: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected deterministic evaluation")
	}
}

func TestEngineRiskReasons(t *testing.T) {
	engine := newEngine(t)

	tests := []struct {
		name     string
		mutate   func(input *domain.PolicyInput)
		wantRisk int
		wantCode string
	}{
		{
			name:     "takedown match",
			mutate:   func(input *domain.PolicyInput) { input.Submission.TakedownMatch = true },
			wantRisk: 60,
			wantCode: "TAKEDOWN_MATCH",
		},
		{
			name:     "missing consent",
			mutate:   func(input *domain.PolicyInput) { input.Submission.TaperConsent = false },
			wantRisk: 40,
			wantCode: "CONSENT_MISSING",
		},
		{
			name:     "integrity failed",
			mutate:   func(input *domain.PolicyInput) { input.Verification.IntegrityPass = false },
			wantRisk: 30,
			wantCode: "INTEGRITY_FAILED",
		},
		{
			name:     "uploader strikes",
			mutate:   func(input *domain.PolicyInput) { input.Submission.UploaderStrikes = 3 },
			wantRisk: 25,
			wantCode: "UPLOADER_STRIKES",
		},
		{
			name:     "duplicate submission",
			mutate:   func(input *domain.PolicyInput) { input.Submission.Duplicate = true },
			wantRisk: 20,
			wantCode: "DUPLICATE_SUBMISSION",
		},
	}
	for _, tc := range tests {
		input := basePolicyInput()
		tc.mutate(&input)
		evaluation, err := engine.Evaluate(context.Background(), input)
		if err != nil {
			t.Fatalf("%s: evaluate: %v", tc.name, err)
		}
		if evaluation.Result.Risk != tc.wantRisk {
			t.Fatalf("%s: expected risk %d, got %d", tc.name, tc.wantRisk, evaluation.Result.Risk)
		}
		found := false
		for _, reason := range evaluation.Result.Reasons {
			if reason.Code == tc.wantCode {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s: expected reason %s, got %v", tc.name, tc.wantCode, evaluation.Result.Reasons)
		}
	}
}

func TestEngineClampsStackedRisk(t *testing.T) {
	engine := newEngine(t)
	input := basePolicyInput()
	input.Submission.TakedownMatch = true
	input.Submission.TaperConsent = false
	input.Verification.IntegrityPass = false

	evaluation, err := engine.Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if evaluation.Result.Risk != 100 {
		t.Fatalf("expected stacked risk clamped to 100, got %d", evaluation.Result.Risk)
	}
	if len(evaluation.Result.Reasons) != 3 {
		t.Fatalf("expected 3 reasons, got %v", evaluation.Result.Reasons)
	}
	for i := 1; i < len(evaluation.Result.Reasons); i++ {
		if evaluation.Result.Reasons[i-1].Code > evaluation.Result.Reasons[i].Code {
			t.Fatalf("expected reasons sorted by code, got %v", evaluation.Result.Reasons)
		}
	}
}

func TestEngineRejectsOutOfRangeRisk(t *testing.T) {
	dir := t.TempDir()
	regoContent := `package soundcheck.policy

result := {"risk": 150, "reasons": []}
`
	if err := os.WriteFile(filepath.Join(dir, "policy.rego"), []byte(regoContent), 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	engine, err := NewEngineFromBundlePath(context.Background(), dir, "overflow")
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.Evaluate(context.Background(), basePolicyInput()); err == nil {
		t.Fatalf("expected error for out-of-range risk")
	}
}

func TestEngineRejectsForbiddenBuiltins(t *testing.T) {
	dir := t.TempDir()
	regoContent := `package soundcheck.policy

result := {"risk": 0, "reasons": []} {
	http.send({"method": "get", "url": "http://example.invalid"})
}
`
	if err := os.WriteFile(filepath.Join(dir, "policy.rego"), []byte(regoContent), 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	if _, err := NewEngineFromBundlePath(context.Background(), dir, "network"); err == nil {
		t.Fatalf("expected compile error for http.send")
	}
}

func TestBundleHashTracksContent(t *testing.T) {
	dir := t.TempDir()
	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, "policy.rego"), []byte(content), 0o644); err != nil {
			t.Fatalf("write bundle: %v", err)
		}
	}

	write("package soundcheck.policy\n\nresult := {\"risk\": 0, \"reasons\": []}\n")
	first, err := ComputeBundleHashFromPath(dir)
	if err != nil {
		t.Fatalf("hash first: %v", err)
	}
	again, err := ComputeBundleHashFromPath(dir)
	if err != nil {
		t.Fatalf("hash again: %v", err)
	}
	if first != again {
		t.Fatalf("expected stable bundle hash")
	}

	write("package soundcheck.policy\n\nresult := {\"risk\": 1, \"reasons\": []}\n")
	changed, err := ComputeBundleHashFromPath(dir)
	if err != nil {
		t.Fatalf("hash changed: %v", err)
	}
	if changed == first {
		t.Fatalf("expected hash to change with bundle content")
	}
}
