// internal/amendments/tracker_test.go
package amendments

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

func submittedApplication() *models.DataAccessRequest {
	app := &models.DataAccessRequest{
		ApplicationStatus: models.ApplicationStatusSubmitted,
		MajorVersion:      1.0,
	}
	app.ID = uuid.New()
	return app
}

func TestCreateRequiresReviewStatus(t *testing.T) {
	custodian := uuid.New()
	now := time.Now()

	for _, status := range []models.ApplicationStatus{
		models.ApplicationStatusInProgress,
		models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
		models.ApplicationStatusWithdrawn,
	} {
		app := submittedApplication()
		app.ApplicationStatus = status
		_, err := Create(app, custodian, now)
		assert.True(t, apperrors.IsInvalidState(err), "status %s should refuse amendments", status)
	}

	for _, status := range []models.ApplicationStatus{
		models.ApplicationStatusSubmitted,
		models.ApplicationStatusInReview,
	} {
		app := submittedApplication()
		app.ApplicationStatus = status
		iteration, err := Create(app, custodian, now)
		require.NoError(t, err)
		assert.Equal(t, custodian, iteration.CreatedBy)
		assert.Equal(t, now, iteration.DateCreated)
		assert.Nil(t, iteration.DateReturned)
		assert.Nil(t, iteration.DateSubmitted)
	}
}

func TestReturnIsIdempotent(t *testing.T) {
	app := submittedApplication()
	custodian := uuid.New()
	first := time.Now()

	_, err := Create(app, custodian, first)
	require.NoError(t, err)

	require.NoError(t, Return(app, 0, custodian, first))
	returnedAt := *app.AmendmentIterations[0].DateReturned

	later := first.Add(time.Hour)
	require.NoError(t, Return(app, 0, uuid.New(), later))
	assert.Equal(t, returnedAt, *app.AmendmentIterations[0].DateReturned)
	assert.Equal(t, custodian, *app.AmendmentIterations[0].ReturnedBy)
}

func TestSubmitStampsIterationAndVersionTree(t *testing.T) {
	app := submittedApplication()
	app.VersionTree = models.VersionTree{
		"1.0": {ApplicationID: app.ID, DisplayTitle: "Version 1.0 (latest)", DetailedTitle: "Version 1.0 (latest)"},
	}
	custodian := uuid.New()
	applicant := uuid.New()
	now := time.Now()

	_, err := Create(app, custodian, now)
	require.NoError(t, err)

	require.NoError(t, Submit(app, 0, applicant, now.Add(time.Hour)))

	iteration := app.AmendmentIterations[0]
	require.NotNil(t, iteration.DateSubmitted)
	assert.Equal(t, applicant, *iteration.SubmittedBy)

	minor, ok := app.VersionTree["1.1"]
	require.True(t, ok)
	assert.Equal(t, "Version 1.1 (latest) | Update", minor.DetailedTitle)
	assert.NotContains(t, app.VersionTree["1.0"].DisplayTitle, "(latest)")
}

func TestSubmitTwiceFails(t *testing.T) {
	app := submittedApplication()
	applicant := uuid.New()
	now := time.Now()

	_, err := Create(app, uuid.New(), now)
	require.NoError(t, err)
	require.NoError(t, Submit(app, 0, applicant, now))

	err = Submit(app, 0, applicant, now)
	var already *apperrors.AlreadySubmittedError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, 0, already.Index)
}

func TestSubmitOutOfOrderFails(t *testing.T) {
	app := submittedApplication()
	now := time.Now()

	_, err := Create(app, uuid.New(), now)
	require.NoError(t, err)
	_, err = Create(app, uuid.New(), now.Add(time.Minute))
	require.NoError(t, err)

	err = Submit(app, 0, uuid.New(), now.Add(time.Hour))
	assert.True(t, apperrors.IsInvalidState(err))

	require.NoError(t, Submit(app, 1, uuid.New(), now.Add(time.Hour)))
}

func TestSubmitUnknownIndex(t *testing.T) {
	app := submittedApplication()
	err := Submit(app, 3, uuid.New(), time.Now())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAwaitingUpdates(t *testing.T) {
	app := submittedApplication()
	assert.False(t, AwaitingUpdates(app))

	_, err := Create(app, uuid.New(), time.Now())
	require.NoError(t, err)
	assert.True(t, AwaitingUpdates(app))

	require.NoError(t, Submit(app, 0, uuid.New(), time.Now()))
	assert.False(t, AwaitingUpdates(app))
}
