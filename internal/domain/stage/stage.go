// Package stage implements the pipeline stage transition rule for
// automated scoring.
package stage

import "github.com/okian/hireflow/internal/domain/model"

// DefaultThreshold is used when job settings are absent or the
// shortlist threshold is unset.
const DefaultThreshold = 75.0

// Decision is the outcome of applying the transition rule.
type Decision struct {
	Next   model.Stage
	Coarse string
	// Changed is false when the application is already past the
	// automated stages and the rule must not touch it.
	Changed bool
}

// Threshold resolves the effective shortlist threshold from job
// settings, falling back to DefaultThreshold.
func Threshold(settings *model.JobSettings) float64 {
	if settings == nil || settings.ShortlistThreshold == nil {
		return DefaultThreshold
	}
	t := *settings.ShortlistThreshold
	if t < 0 || t > 100 {
		return DefaultThreshold
	}
	return t
}

// Apply maps (current stage, composite score, threshold) to the next
// pipeline stage. The rule is pure and total over [0,100] x [0,100].
//
// It only acts when the current stage is assessment_submitted or
// ai_reviewed: re-scoring an application a human already advanced
// (or rejected) must never regress it, so anything past the
// automated stages is left untouched.
func Apply(current model.Stage, composite, threshold float64) Decision {
	if current != model.StageAssessmentSubmitted && current != model.StageAIReviewed {
		return Decision{Next: current, Coarse: model.CoarseStatus(current), Changed: false}
	}

	// Tie-break at exact equality favors shortlisting.
	next := model.StageAIReviewed
	if composite >= threshold {
		next = model.StageShortlisted
	}

	return Decision{
		Next:    next,
		Coarse:  model.CoarseStatus(next),
		Changed: next != current,
	}
}
