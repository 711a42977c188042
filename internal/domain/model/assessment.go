// Package model contains domain models passed between layers.
package model

import (
	"time"

	"gorm.io/gorm"
)

// AssessmentStatus tracks the lifecycle of a writing assessment.
type AssessmentStatus string

// Assessment lifecycle statuses. An assessment is never deleted,
// only superseded in status.
const (
	AssessmentSubmitted    AssessmentStatus = "submitted"
	AssessmentAIScored     AssessmentStatus = "ai_scored"
	AssessmentManualReview AssessmentStatus = "manual_review"
	AssessmentFinalized    AssessmentStatus = "finalized"
)

// Assessment is a candidate's submitted writing sample tied to one
// application. Score fields are nil until the scoring pipeline runs.
type Assessment struct {
	ID             string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	ApplicationID  string           `gorm:"type:varchar(36);not null;index" json:"application_id"`
	TenantID       string           `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Content        string           `gorm:"type:longtext" json:"content"`
	Status         AssessmentStatus `gorm:"type:varchar(32);not null" json:"status"`
	AIScores       *AIScoreRecord   `gorm:"serializer:json" json:"ai_scores,omitempty"`
	CompositeScore *float64         `json:"composite_score,omitempty"`
	SubmittedAt    time.Time        `json:"submitted_at"`
	ScoredAt       *time.Time       `json:"scored_at,omitempty"`

	Application Application `gorm:"foreignKey:ApplicationID;references:ID" json:"-"`
}

// TableName implements the GORM tabler interface.
func (Assessment) TableName() string { return "assessments" }

// DimensionFeedback pairs one sub-score with its ordered feedback
// strings.
type DimensionFeedback struct {
	Score    float64  `json:"score"`
	Feedback []string `json:"feedback"`
}

// AIScoreRecord is the value object produced by a scorer run. All
// scores are bounded to [0,100] and the composite is a deterministic
// weighted combination of the five sub-scores.
type AIScoreRecord struct {
	Readability        DimensionFeedback `json:"readability"`
	WritingQuality     DimensionFeedback `json:"writing_quality"`
	SEO                DimensionFeedback `json:"seo"`
	EnglishProficiency DimensionFeedback `json:"english_proficiency"`
	AIDetection        DimensionFeedback `json:"ai_detection"`
	CompositeScore     float64           `json:"composite_score"`
}

// JobSettings is per-job configuration read by the scoring pipeline.
// Owned by the job editing flow; read-only to the core.
type JobSettings struct {
	ID                 string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	JobID              string   `gorm:"type:varchar(36);not null;uniqueIndex" json:"job_id"`
	TenantID           string   `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	ShortlistThreshold *float64 `json:"shortlist_threshold,omitempty"`
	Keywords           string   `gorm:"type:text" json:"keywords"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName implements the GORM tabler interface.
func (JobSettings) TableName() string { return "job_settings" }
