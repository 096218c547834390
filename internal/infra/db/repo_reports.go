package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"soundcheck/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errDBUnavailable = errors.New("db unavailable")

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Save(ctx context.Context, report domain.VerificationReport) (bool, error) {
	if r.db == nil {
		return false, errDBUnavailable
	}
	if report.Identifier == "" {
		return false, errors.New("identifier is required")
	}

	model, err := toModel(report)
	if err != nil {
		return false, err
	}

	superseded := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ReportModel{}).
			Where("identifier = ? AND superseded = ?", report.Identifier, false).
			Update("superseded", true)
		if res.Error != nil {
			return res.Error
		}
		superseded = res.RowsAffected > 0
		return tx.Create(&model).Error
	})
	if err != nil {
		return false, err
	}
	return superseded, nil
}

func (r *ReportRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.VerificationReport, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ReportModel
	err := r.db.WithContext(ctx).
		Where("identifier = ? AND superseded = ?", identifier, false).
		Order("created_at DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	report, err := toDomain(model)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]domain.VerificationReport, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var models []ReportModel
	err := r.db.WithContext(ctx).
		Where("superseded = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	reports := make([]domain.VerificationReport, 0, len(models))
	for _, model := range models {
		report, err := toDomain(model)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func toModel(report domain.VerificationReport) (ReportModel, error) {
	var reasonsJSON []byte
	if len(report.Reasons) > 0 {
		encoded, err := json.Marshal(report.Reasons)
		if err != nil {
			return ReportModel{}, err
		}
		reasonsJSON = encoded
	}
	createdAt := report.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return ReportModel{
		ID:                uuid.NewString(),
		Identifier:        report.Identifier,
		IntegrityScore:    report.IntegrityScore,
		AudioQualityScore: report.AudioQualityScore,
		PolicyRisk:        report.PolicyRisk,
		OverallScore:      report.OverallScore,
		Verdict:           string(report.Verdict),
		ReasonsJSON:       reasonsJSON,
		ScorerVersion:     report.ScorerVersion,
		CreatedAt:         createdAt,
	}, nil
}

func toDomain(model ReportModel) (domain.VerificationReport, error) {
	var reasons []string
	if len(model.ReasonsJSON) > 0 {
		if err := json.Unmarshal(model.ReasonsJSON, &reasons); err != nil {
			return domain.VerificationReport{}, err
		}
	}
	return domain.VerificationReport{
		Identifier:        model.Identifier,
		IntegrityScore:    model.IntegrityScore,
		AudioQualityScore: model.AudioQualityScore,
		PolicyRisk:        model.PolicyRisk,
		OverallScore:      model.OverallScore,
		Verdict:           domain.Verdict(model.Verdict),
		Reasons:           reasons,
		ScorerVersion:     model.ScorerVersion,
		CreatedAt:         model.CreatedAt,
	}, nil
}
