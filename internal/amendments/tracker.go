// internal/amendments/tracker.go
package amendments

import (
	"time"

	"github.com/google/uuid"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/versiontree"
)

// Create appends a new amendment iteration to the application. Amendments
// are only requested mid-review, so any other application status is an
// invalid state.
func Create(app *models.DataAccessRequest, userID uuid.UUID, now time.Time) (*models.AmendmentIteration, error) {
	if app == nil {
		return nil, apperrors.NewValidationError("application", "application is required")
	}
	if !app.UnderReview() {
		return nil, apperrors.NewInvalidStateError("application", string(app.ApplicationStatus), "request an amendment")
	}

	iteration := models.AmendmentIteration{
		ID:          uuid.New(),
		DateCreated: now,
		CreatedBy:   userID,
	}
	app.AmendmentIterations = append(app.AmendmentIterations, iteration)
	return &app.AmendmentIterations[len(app.AmendmentIterations)-1], nil
}

// Return stamps the iteration as returned to the applicant for updates.
// Returning an already-returned iteration is a no-op.
func Return(app *models.DataAccessRequest, index int, userID uuid.UUID, now time.Time) error {
	iteration, err := iterationAt(app, index)
	if err != nil {
		return err
	}
	if iteration.Returned() {
		return nil
	}
	iteration.DateReturned = &now
	iteration.ReturnedBy = &userID
	return nil
}

// Submit records the applicant's resubmission of updated answers and adds
// the corresponding minor version to the application's version tree. Only
// the most recently created unsubmitted iteration may be submitted.
func Submit(app *models.DataAccessRequest, index int, userID uuid.UUID, now time.Time) error {
	iteration, err := iterationAt(app, index)
	if err != nil {
		return err
	}
	if iteration.Submitted() {
		return apperrors.NewAlreadySubmittedError(index)
	}
	if index != len(app.AmendmentIterations)-1 {
		return apperrors.NewInvalidStateError("amendment iteration", "superseded", "submit out of order")
	}

	iteration.DateSubmitted = &now
	iteration.SubmittedBy = &userID
	app.VersionTree = versiontree.Build(app)
	return nil
}

// AwaitingUpdates reports whether the application currently has an
// iteration the applicant still needs to act on.
func AwaitingUpdates(app *models.DataAccessRequest) bool {
	if app == nil {
		return false
	}
	latest := app.AmendmentIterations.Latest()
	return latest != nil && !latest.Submitted()
}

func iterationAt(app *models.DataAccessRequest, index int) (*models.AmendmentIteration, error) {
	if app == nil {
		return nil, apperrors.NewValidationError("application", "application is required")
	}
	if index < 0 || index >= len(app.AmendmentIterations) {
		return nil, apperrors.NewNotFoundError("amendment iteration", app.ID.String())
	}
	return &app.AmendmentIterations[index], nil
}
