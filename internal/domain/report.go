package domain

import "time"

// Verdict is the discrete outcome of a verification attempt.
type Verdict string

const (
	VerdictAutoAccept   Verdict = "AUTO_ACCEPT"
	VerdictManualReview Verdict = "MANUAL_REVIEW"
	VerdictReject       Verdict = "REJECT"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictAutoAccept, VerdictManualReview, VerdictReject:
		return true
	}
	return false
}

// VerificationReport is immutable once produced. Re-verifying the same
// subject yields a new report that supersedes the old one; nothing edits a
// report in place.
type VerificationReport struct {
	Identifier        string    `json:"identifier"`
	IntegrityScore    int       `json:"integrity_score"`
	AudioQualityScore int       `json:"audio_quality_score"`
	PolicyRisk        int       `json:"policy_risk"`
	OverallScore      int       `json:"overall_score"`
	Verdict           Verdict   `json:"verdict"`
	Reasons           []string  `json:"reasons,omitempty"`
	ScorerVersion     string    `json:"scorer_version"`
	CreatedAt         time.Time `json:"created_at"`
}
