package usecase

import (
	"context"
	"fmt"
	"strings"

	"soundcheck/internal/domain"
)

// VerifySubmission runs the full pipeline for one uploaded archive:
// content addressing, integrity comparison, audio analysis, policy risk,
// scoring, and (when a repository is wired) persistence.
type VerifySubmission struct {
	Scorer  *Scorer
	Hasher  ContentAddresser
	Audio   AudioAnalyzer
	Risk    RiskEvaluator
	Reports ReportRepository
}

type VerifySubmissionRequest struct {
	Archive     []byte
	MediaType   string
	ClaimedHash string
	Stream      domain.StreamInfo
	Submitter   domain.SubmissionFacts
}

type VerifySubmissionResult struct {
	Report     domain.VerificationReport
	Policy     domain.RiskEvaluation
	Superseded bool
}

func (uc *VerifySubmission) Execute(ctx context.Context, req VerifySubmissionRequest) (VerifySubmissionResult, error) {
	if uc.Scorer == nil || uc.Hasher == nil || uc.Audio == nil || uc.Risk == nil {
		return VerifySubmissionResult{}, fmt.Errorf("verify submission: missing collaborator")
	}
	if len(req.Archive) == 0 {
		return VerifySubmissionResult{}, fmt.Errorf("%w: empty archive", domain.ErrInvalidInput)
	}
	claimed := strings.ToLower(strings.TrimSpace(req.ClaimedHash))
	if !validIdentifier(claimed) {
		return VerifySubmissionResult{}, fmt.Errorf("%w: claimed hash must be a %d-char lowercase hex digest", domain.ErrInvalidInput, identifierLen)
	}

	identifier, err := uc.Hasher.ContentAddress(req.MediaType, req.Archive)
	if err != nil {
		return VerifySubmissionResult{}, fmt.Errorf("content address: %w", err)
	}
	integrityPass := identifier == claimed

	audioScore, err := uc.Audio.Score(req.Stream)
	if err != nil {
		return VerifySubmissionResult{}, fmt.Errorf("audio analysis: %w", err)
	}

	facts := req.Submitter
	facts.Identifier = identifier
	evaluation, err := uc.Risk.Evaluate(ctx, domain.PolicyInput{
		Submission: facts,
		Verification: domain.VerificationFacts{
			IntegrityPass:     integrityPass,
			AudioQualityScore: audioScore,
		},
	})
	if err != nil {
		return VerifySubmissionResult{}, fmt.Errorf("risk evaluation: %w", err)
	}

	report, err := uc.Scorer.Score(identifier, integrityPass, audioScore, evaluation.Result.Risk)
	if err != nil {
		return VerifySubmissionResult{}, err
	}

	result := VerifySubmissionResult{Report: report, Policy: evaluation}
	if uc.Reports != nil {
		superseded, err := uc.Reports.Save(ctx, report)
		if err != nil {
			return VerifySubmissionResult{}, fmt.Errorf("save report: %w", err)
		}
		result.Superseded = superseded
	}
	return result, nil
}
