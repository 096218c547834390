package domain

// PolicyInput is the document handed to the risk policy. The shape is part
// of the policy bundle contract; renaming a field is a breaking change for
// deployed bundles.
type PolicyInput struct {
	Submission   SubmissionFacts   `json:"submission"`
	Verification VerificationFacts `json:"verification"`
}

type SubmissionFacts struct {
	Identifier      string `json:"identifier"`
	UploaderID      string `json:"uploader_id"`
	UploaderStrikes int    `json:"uploader_strikes"`
	TaperConsent    bool   `json:"taper_consent"`
	TakedownMatch   bool   `json:"takedown_match"`
	Duplicate       bool   `json:"duplicate"`
}

type VerificationFacts struct {
	IntegrityPass     bool `json:"integrity_pass"`
	AudioQualityScore int  `json:"audio_quality_score"`
}

type RiskReason struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

type RiskResult struct {
	Risk    int          `json:"risk"`
	Reasons []RiskReason `json:"reasons,omitempty"`
}

type RiskEvaluation struct {
	BundleID   string     `json:"bundle_id,omitempty"`
	BundleHash string     `json:"bundle_hash,omitempty"`
	Result     RiskResult `json:"result"`
}
