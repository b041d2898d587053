// internal/datasets/lifecycle_test.go
package datasets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

func draftDataset(pid string) *models.Dataset {
	return &models.Dataset{
		PID:            pid,
		Name:           "HES Admitted Patient Care",
		DatasetVersion: "1.0.0",
		ActiveFlag:     models.ActiveFlagDraft,
	}
}

func TestSubmitOnlyFromDraft(t *testing.T) {
	now := time.Now()

	d := draftDataset("pid-1")
	require.NoError(t, Submit(d, now))
	assert.Equal(t, models.ActiveFlagInReview, d.ActiveFlag)
	require.NotNil(t, d.Timestamps.Submitted)

	err := Submit(d, now)
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestApproveArchivesActiveSibling(t *testing.T) {
	now := time.Now()

	old := draftDataset("pid-1")
	old.ActiveFlag = models.ActiveFlagActive
	old.Counter = 1540
	old.DiscourseTopicID = 77

	next := draftDataset("pid-1")
	next.DatasetVersion = "1.1.0"
	require.NoError(t, Submit(next, now))

	require.NoError(t, Approve(next, old, now))

	assert.Equal(t, models.ActiveFlagArchive, old.ActiveFlag)
	require.NotNil(t, old.Timestamps.Archived)
	assert.Equal(t, models.ActiveFlagActive, next.ActiveFlag)
	require.NotNil(t, next.Timestamps.Published)
	assert.Equal(t, 1540, next.Counter)
	assert.Equal(t, 77, next.DiscourseTopicID)
}

func TestApproveGuards(t *testing.T) {
	now := time.Now()

	d := draftDataset("pid-1")
	err := Approve(d, nil, now)
	assert.True(t, apperrors.IsInvalidState(err), "draft cannot be approved")

	d.ActiveFlag = models.ActiveFlagInReview
	sibling := draftDataset("pid-2")
	sibling.ActiveFlag = models.ActiveFlagActive
	err = Approve(d, sibling, now)
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAtMostOneActivePerPID(t *testing.T) {
	now := time.Now()
	records := []*models.Dataset{draftDataset("pid-1")}
	require.NoError(t, Submit(records[0], now))
	require.NoError(t, Approve(records[0], nil, now))

	for i := 0; i < 3; i++ {
		next := draftDataset("pid-1")
		require.NoError(t, Submit(next, now))

		var active *models.Dataset
		for _, r := range records {
			if r.ActiveFlag == models.ActiveFlagActive {
				active = r
			}
		}
		require.NoError(t, Approve(next, active, now))
		records = append(records, next)

		count := 0
		for _, r := range records {
			if r.ActiveFlag == models.ActiveFlagActive {
				count++
			}
		}
		assert.Equal(t, 1, count)
	}
}

func TestRejectRecordsReason(t *testing.T) {
	now := time.Now()
	d := draftDataset("pid-1")
	require.NoError(t, Submit(d, now))

	require.NoError(t, Reject(d, "missing coverage metadata", now))
	assert.Equal(t, models.ActiveFlagRejected, d.ActiveFlag)
	assert.Equal(t, "missing coverage metadata", d.ApplicationStatusDesc)
	require.NotNil(t, d.Timestamps.Rejected)

	err := Reject(d, "again", now)
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestArchiveAndUnarchivePublishedRecord(t *testing.T) {
	now := time.Now()
	d := draftDataset("pid-1")
	require.NoError(t, Submit(d, now))
	require.NoError(t, Approve(d, nil, now))

	require.NoError(t, Archive(d, now))
	assert.Equal(t, models.ActiveFlagArchive, d.ActiveFlag)

	require.NoError(t, Unarchive(d, now))
	assert.Equal(t, models.ActiveFlagActive, d.ActiveFlag, "submitted record restores to active")
	require.NotNil(t, d.Timestamps.Unarchived)
}

func TestUnarchiveNeverSubmittedRestoresDraft(t *testing.T) {
	now := time.Now()
	d := draftDataset("pid-1")
	d.ActiveFlag = models.ActiveFlagArchive

	require.NoError(t, Unarchive(d, now))
	assert.Equal(t, models.ActiveFlagDraft, d.ActiveFlag)
}

func TestArchiveOnlyFromActive(t *testing.T) {
	d := draftDataset("pid-1")
	err := Archive(d, time.Now())
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestComputeCommercialUse(t *testing.T) {
	tests := []struct {
		name     string
		v2       models.JSONB
		expected bool
	}{
		{
			name: "gold allowable uses",
			v2: models.JSONB{
				"dataUtility": map[string]interface{}{"allowable_uses": "Gold"},
			},
			expected: true,
		},
		{
			name: "platinum allowable uses",
			v2: models.JSONB{
				"dataUtility": map[string]interface{}{"allowable_uses": "Platinum"},
			},
			expected: true,
		},
		{
			name: "no restriction limitation",
			v2: models.JSONB{
				"accessibility": map[string]interface{}{
					"usage": map[string]interface{}{
						"dataUseLimitation": []interface{}{"NO RESTRICTION"},
					},
				},
			},
			expected: true,
		},
		{
			name: "not-for-profit veto beats commercial research use",
			v2: models.JSONB{
				"accessibility": map[string]interface{}{
					"usage": map[string]interface{}{
						"dataUseLimitation": []interface{}{"NOT FOR PROFIT USE", "COMMERCIAL RESEARCH USE"},
					},
				},
			},
			expected: false,
		},
		{
			name:     "empty metadata",
			v2:       models.JSONB{},
			expected: false,
		},
		{
			name: "unrelated limitation",
			v2: models.JSONB{
				"accessibility": map[string]interface{}{
					"usage": map[string]interface{}{
						"dataUseLimitation": []interface{}{"RESEARCH USE ONLY"},
					},
				},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeCommercialUse(tt.v2))
		})
	}
}
