package model

import "time"

// Stage is the candidate application's position in the hiring
// workflow state machine.
type Stage string

// Pipeline stages, in forward order. Rejected is terminal and
// reachable from several states; the core never moves a stage
// backward.
const (
	StageApplied             Stage = "applied"
	StageAssessmentSubmitted Stage = "assessment_submitted"
	StageAIReviewed          Stage = "ai_reviewed"
	StageShortlisted         Stage = "shortlisted"
	StageRejected            Stage = "rejected"
	StageManualReview        Stage = "manual_review"
	StagePaidAssignment      Stage = "paid_assignment"
	StageHired               Stage = "hired"
)

// CoarseStatus maps a pipeline stage to the legacy coarse status
// label kept on the application row.
func CoarseStatus(s Stage) string {
	switch s {
	case StageApplied, StageAssessmentSubmitted:
		return "pending"
	case StageAIReviewed:
		return "reviewed"
	case StageShortlisted:
		return "shortlisted"
	case StageRejected:
		return "rejected"
	case StageManualReview, StagePaidAssignment:
		return "in_progress"
	case StageHired:
		return "hired"
	}
	return "pending"
}

// Application links a candidate to a job within a tenant.
type Application struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	JobID       string     `gorm:"type:varchar(36);not null;index" json:"job_id"`
	CandidateID string     `gorm:"type:varchar(36);not null;index" json:"candidate_id"`
	TenantID    string     `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Stage       Stage      `gorm:"type:varchar(32);not null" json:"stage"`
	Status      string     `gorm:"type:varchar(32);not null" json:"status"`
	HiredAt     *time.Time `json:"hired_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName implements the GORM tabler interface.
func (Application) TableName() string { return "applications" }
