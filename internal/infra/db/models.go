package db

import "time"

// ReportModel rows are append-only. Re-verification inserts a new row and
// flips Superseded on the previous one; nothing updates score fields.
type ReportModel struct {
	ID                string    `gorm:"type:uuid;primaryKey"`
	Identifier        string    `gorm:"size:64;index;not null"`
	IntegrityScore    int       `gorm:"not null"`
	AudioQualityScore int       `gorm:"not null"`
	PolicyRisk        int       `gorm:"not null"`
	OverallScore      int       `gorm:"not null"`
	Verdict           string    `gorm:"not null"`
	ReasonsJSON       []byte    `gorm:"type:jsonb"`
	ScorerVersion     string    `gorm:"not null"`
	Superseded        bool      `gorm:"index;not null"`
	CreatedAt         time.Time `gorm:"not null"`
}

func (ReportModel) TableName() string {
	return "verification_reports"
}
