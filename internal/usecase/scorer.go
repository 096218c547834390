package usecase

import (
	"fmt"
	"sort"
	"time"

	"soundcheck/internal/domain"
)

const ScorerVersion = "scorer.v0.1.0"

const identifierLen = 64

// Weights control the contribution of each input to the overall score.
// All three must be positive; defaults weigh the inputs equally.
type Weights struct {
	Integrity int
	Audio     int
	Policy    int
}

func DefaultWeights() Weights {
	return Weights{Integrity: 1, Audio: 1, Policy: 1}
}

// Thresholds are the verdict cut points. AUTO_ACCEPT requires both the
// overall floor and the risk ceiling; REJECT is overall-only.
type Thresholds struct {
	AcceptMinOverall   int
	AcceptMaxRisk      int
	RejectBelowOverall int
}

func DefaultThresholds() Thresholds {
	return Thresholds{AcceptMinOverall: 80, AcceptMaxRisk: 50, RejectBelowOverall: 40}
}

// Scorer maps verification inputs to an immutable report. It holds no
// state between calls and is safe for concurrent use.
type Scorer struct {
	weights    Weights
	thresholds Thresholds
	now        func() time.Time
}

func NewScorer(weights Weights, thresholds Thresholds) (*Scorer, error) {
	if weights.Integrity <= 0 || weights.Audio <= 0 || weights.Policy <= 0 {
		return nil, fmt.Errorf("%w: weights must be positive", domain.ErrInvalidScore)
	}
	if err := checkRange("accept_min_overall", thresholds.AcceptMinOverall); err != nil {
		return nil, err
	}
	if err := checkRange("accept_max_risk", thresholds.AcceptMaxRisk); err != nil {
		return nil, err
	}
	if err := checkRange("reject_below_overall", thresholds.RejectBelowOverall); err != nil {
		return nil, err
	}
	if thresholds.RejectBelowOverall > thresholds.AcceptMinOverall {
		return nil, fmt.Errorf("%w: reject cut point above accept cut point", domain.ErrInvalidScore)
	}
	return &Scorer{weights: weights, thresholds: thresholds, now: time.Now}, nil
}

// Score computes the weighted overall score and verdict for one
// verification attempt. The identifier is the sha256 content address of
// the subject; audioScore and policyRisk come from collaborators and must
// be in [0,100].
func (s *Scorer) Score(identifier string, integrityPass bool, audioScore, policyRisk int) (domain.VerificationReport, error) {
	if !validIdentifier(identifier) {
		return domain.VerificationReport{}, fmt.Errorf("%w: identifier must be a %d-char lowercase hex content address", domain.ErrInvalidInput, identifierLen)
	}
	if err := checkRange("audio_quality_score", audioScore); err != nil {
		return domain.VerificationReport{}, err
	}
	if err := checkRange("policy_risk", policyRisk); err != nil {
		return domain.VerificationReport{}, err
	}

	integrityScore := 0
	if integrityPass {
		integrityScore = 100
	}
	overall := s.combine(integrityScore, audioScore, 100-policyRisk)
	verdict := s.verdict(overall, policyRisk)

	return domain.VerificationReport{
		Identifier:        identifier,
		IntegrityScore:    integrityScore,
		AudioQualityScore: audioScore,
		PolicyRisk:        policyRisk,
		OverallScore:      overall,
		Verdict:           verdict,
		Reasons:           s.reasons(integrityPass, audioScore, policyRisk),
		ScorerVersion:     ScorerVersion,
		CreatedAt:         s.now().UTC(),
	}, nil
}

// combine rounds half-up so the result stays in [0,100] and is monotone
// in every component.
func (s *Scorer) combine(integrity, audio, compliance int) int {
	total := s.weights.Integrity + s.weights.Audio + s.weights.Policy
	weighted := s.weights.Integrity*integrity + s.weights.Audio*audio + s.weights.Policy*compliance
	return (weighted + total/2) / total
}

func (s *Scorer) verdict(overall, policyRisk int) domain.Verdict {
	if overall < s.thresholds.RejectBelowOverall {
		return domain.VerdictReject
	}
	if overall >= s.thresholds.AcceptMinOverall && policyRisk < s.thresholds.AcceptMaxRisk {
		return domain.VerdictAutoAccept
	}
	return domain.VerdictManualReview
}

func (s *Scorer) reasons(integrityPass bool, audioScore, policyRisk int) []string {
	set := make(map[string]struct{})
	if !integrityPass {
		set["INTEGRITY_FAILED"] = struct{}{}
	}
	if audioScore < s.thresholds.RejectBelowOverall {
		set["AUDIO_QUALITY_LOW"] = struct{}{}
	}
	if policyRisk >= s.thresholds.AcceptMaxRisk {
		set["POLICY_RISK_ELEVATED"] = struct{}{}
	}
	if len(set) == 0 {
		return nil
	}
	ordered := make([]string, 0, len(set))
	for reason := range set {
		ordered = append(ordered, reason)
	}
	sort.Strings(ordered)
	return ordered
}

func checkRange(field string, value int) error {
	if value < 0 || value > 100 {
		return fmt.Errorf("%w: %s must be in [0,100], got %d", domain.ErrInvalidScore, field, value)
	}
	return nil
}

func validIdentifier(identifier string) bool {
	if len(identifier) != identifierLen {
		return false
	}
	for i := 0; i < len(identifier); i++ {
		c := identifier[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
