// internal/workflow/engine.go
package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

// StepState is the derived state of one workflow step.
type StepState string

const (
	StepStatePending   StepState = "pending"
	StepStateActive    StepState = "active"
	StepStateCompleted StepState = "completed"
)

// StateOf derives a step's state from its flags.
func StateOf(step *models.WorkflowStep) StepState {
	switch {
	case step.Completed:
		return StepStateCompleted
	case step.Active:
		return StepStateActive
	default:
		return StepStatePending
	}
}

// StepOutcome describes what EvaluateStepCompletion did.
type StepOutcome struct {
	StepCompleted     bool
	WorkflowCompleted bool
	NextStepIndex     int // -1 when no step was activated
}

// ActivateNextStep activates the first incomplete step in declaration order.
// A no-op when a step is already active or every step has completed.
// Returns the activated step index, or -1.
func ActivateNextStep(w *models.Workflow, now time.Time) int {
	if w == nil {
		return -1
	}
	if w.ActiveStepIndex() != -1 {
		return -1
	}
	for i := range w.Steps {
		if !w.Steps[i].Completed {
			w.Steps[i].Active = true
			w.Steps[i].StartDateTime = &now
			return i
		}
	}
	return -1
}

// RecordRecommendation appends a reviewer's verdict to the active step.
func RecordRecommendation(w *models.Workflow, stepIndex int, reviewerID uuid.UUID, approved bool, comments string, now time.Time) error {
	step, err := stepAt(w, stepIndex)
	if err != nil {
		return err
	}
	if !step.Active {
		return apperrors.NewNotActiveStepError(stepIndex)
	}
	if !step.HasReviewer(reviewerID) {
		return apperrors.NewUnknownReviewerError(stepIndex, reviewerID.String())
	}
	if step.RecommendationFor(reviewerID) != nil {
		return apperrors.NewDuplicateRecommendationError(stepIndex, reviewerID.String())
	}

	step.Recommendations = append(step.Recommendations, models.Recommendation{
		Reviewer:    reviewerID,
		Approved:    approved,
		Comments:    comments,
		DateCreated: now,
	})
	return nil
}

// EvaluateStepCompletion completes the step once every assigned reviewer has
// exactly one recommendation, then activates the next step unless this was
// the last one.
func EvaluateStepCompletion(w *models.Workflow, stepIndex int, now time.Time) (StepOutcome, error) {
	outcome := StepOutcome{NextStepIndex: -1}
	step, err := stepAt(w, stepIndex)
	if err != nil {
		return outcome, err
	}
	if step.Completed {
		outcome.StepCompleted = true
		outcome.WorkflowCompleted = w.Completed()
		return outcome, nil
	}
	if len(step.Recommendations) < len(step.Reviewers) {
		return outcome, nil
	}

	step.Completed = true
	step.Active = false
	step.EndDateTime = &now
	outcome.StepCompleted = true

	if w.Completed() {
		outcome.WorkflowCompleted = true
		return outcome, nil
	}
	outcome.NextStepIndex = ActivateNextStep(w, now)
	return outcome, nil
}

// FinalDecisionRequired reports whether the review has run to completion
// while the application is still inReview. Surfaced as a review-status
// label, never as an application status.
func FinalDecisionRequired(w *models.Workflow, applicationStatus models.ApplicationStatus) bool {
	return w.Completed() && applicationStatus == models.ApplicationStatusInReview
}

// DeriveReviewStatus labels where the review sits for list views.
func DeriveReviewStatus(w *models.Workflow, applicationStatus models.ApplicationStatus) models.ReviewStatus {
	switch {
	case FinalDecisionRequired(w, applicationStatus):
		return models.ReviewStatusFinalDecisionRequired
	case w != nil && w.ActiveStepIndex() != -1:
		return models.ReviewStatusInProgress
	default:
		return models.ReviewStatusNotStarted
	}
}

// StepDeadline returns when the active phase of the step runs out, based on
// its activation time plus the deadline in days. ok is false for a step
// that has not started.
func StepDeadline(step *models.WorkflowStep) (time.Time, bool) {
	if step.StartDateTime == nil {
		return time.Time{}, false
	}
	return step.StartDateTime.Add(time.Duration(step.Deadline) * 24 * time.Hour), true
}

// CanActOnStep reports whether a user sees the step as actionable: listed as
// one of its reviewers while the step is active.
func CanActOnStep(w *models.Workflow, stepIndex int, userID uuid.UUID) bool {
	step, err := stepAt(w, stepIndex)
	if err != nil {
		return false
	}
	return step.Active && step.HasReviewer(userID)
}

// VisibleRecommendations returns the recommendation content the user may
// see: everything on completed steps, plus the user's own recommendation on
// the step they are assigned to. Other steps' recommendations are redacted.
func VisibleRecommendations(w *models.Workflow, stepIndex int, userID uuid.UUID) []models.Recommendation {
	step, err := stepAt(w, stepIndex)
	if err != nil {
		return nil
	}
	if step.Completed {
		out := make([]models.Recommendation, len(step.Recommendations))
		copy(out, step.Recommendations)
		return out
	}
	if step.HasReviewer(userID) {
		if rec := step.RecommendationFor(userID); rec != nil {
			return []models.Recommendation{*rec}
		}
	}
	return nil
}

func stepAt(w *models.Workflow, stepIndex int) (*models.WorkflowStep, error) {
	if w == nil {
		return nil, apperrors.NewValidationError("workflow", "workflow is required")
	}
	if stepIndex < 0 || stepIndex >= len(w.Steps) {
		return nil, apperrors.NewNotFoundError("workflow step", w.ID.String())
	}
	return &w.Steps[stepIndex], nil
}
