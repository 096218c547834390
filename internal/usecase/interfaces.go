package usecase

import (
	"context"

	"soundcheck/internal/domain"
)

// ContentAddresser hashes canonicalized archive bytes into the identifier
// used as the report's content address.
type ContentAddresser interface {
	ContentAddress(mediaType string, data []byte) (string, error)
}

// AudioAnalyzer turns declared stream parameters into a quality score in
// [0,100].
type AudioAnalyzer interface {
	Score(info domain.StreamInfo) (int, error)
}

// RiskEvaluator computes policy risk in [0,100] plus reason codes.
type RiskEvaluator interface {
	Evaluate(ctx context.Context, input domain.PolicyInput) (domain.RiskEvaluation, error)
}

// ReportRepository persists reports. Save returns whether an earlier
// report for the same identifier was superseded.
type ReportRepository interface {
	Save(ctx context.Context, report domain.VerificationReport) (superseded bool, err error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.VerificationReport, error)
	List(ctx context.Context, limit int) ([]domain.VerificationReport, error)
}
