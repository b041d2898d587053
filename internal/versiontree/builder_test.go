// internal/versiontree/builder_test.go
package versiontree

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

func newApplication() *models.DataAccessRequest {
	app := &models.DataAccessRequest{
		ApplicationStatus: models.ApplicationStatusInProgress,
		ApplicationType:   models.ApplicationTypeInitial,
		MajorVersion:      1.0,
	}
	app.ID = uuid.New()
	return app
}

func newIteration() models.AmendmentIteration {
	return models.AmendmentIteration{
		ID:          uuid.New(),
		DateCreated: time.Now(),
		CreatedBy:   uuid.New(),
	}
}

func TestBuildNilApplication(t *testing.T) {
	tree := Build(nil)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestBuildInitialApplication(t *testing.T) {
	app := newApplication()

	tree := Build(app)

	require.Len(t, tree, 1)
	entry, ok := tree["1.0"]
	require.True(t, ok)
	assert.Equal(t, app.ID, entry.ApplicationID)
	assert.Nil(t, entry.IterationID)
	assert.Equal(t, "Version 1.0 (latest)", entry.DisplayTitle)
	assert.Equal(t, "Version 1.0 (latest)", entry.DetailedTitle)
	assert.Equal(t, "/data-access-request/"+app.ID.String(), entry.Link)
	assert.Equal(t, models.ApplicationTypeInitial, entry.ApplicationType)
}

func TestBuildDefaultsMajorVersion(t *testing.T) {
	app := newApplication()
	app.MajorVersion = 0

	tree := Build(app)

	_, ok := tree["1.0"]
	assert.True(t, ok)
}

func TestBuildMinorVersionForSubmittedIteration(t *testing.T) {
	app := newApplication()
	app.ApplicationStatus = models.ApplicationStatusInReview
	app.VersionTree = Build(app)
	app.AmendmentIterations = models.AmendmentIterations{newIteration()}

	tree := Build(app)

	require.Len(t, tree, 2)
	minor, ok := tree["1.1"]
	require.True(t, ok)
	require.NotNil(t, minor.IterationID)
	assert.Equal(t, app.AmendmentIterations[0].ID, *minor.IterationID)
	assert.Equal(t, "Version 1.1 (latest)", minor.DisplayTitle)
	assert.Equal(t, "Version 1.1 (latest) | Update", minor.DetailedTitle)
	assert.Contains(t, minor.Link, "?iterationId="+minor.IterationID.String())

	// the previous latest loses its suffix but keeps everything else
	major := tree["1.0"]
	assert.Equal(t, "Version 1.0", major.DisplayTitle)
	assert.NotContains(t, major.DetailedTitle, "(latest)")
	assert.Equal(t, app.ID, major.ApplicationID)
}

func TestBuildResubmissionTitle(t *testing.T) {
	app := newApplication()
	app.ApplicationType = models.ApplicationTypeResubmission
	app.MajorVersion = 2.0

	tree := Build(app)

	entry := tree["2.0"]
	assert.Equal(t, "Version 2.0 (latest)", entry.DisplayTitle)
	assert.Equal(t, "Version 2.0 (latest) | Resubmission", entry.DetailedTitle)
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"resubmission", "Resubmission"},
		{"Resubmission", "Resubmission"},
		{"überarbeitung", "Überarbeitung"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, capitalize(tt.in), "capitalize(%q)", tt.in)
	}
}

func TestBuildMergesOntoPredecessorTree(t *testing.T) {
	first := newApplication()
	firstTree := Build(first)
	first.VersionTree = firstTree
	first.AmendmentIterations = models.AmendmentIterations{newIteration()}
	firstTree = Build(first)

	second := newApplication()
	second.ApplicationType = models.ApplicationTypeResubmission
	second.MajorVersion = 2.0
	second.VersionTree = firstTree

	tree := Build(second)

	require.Len(t, tree, 3)
	assert.Equal(t, first.ID, tree["1.0"].ApplicationID)
	assert.Equal(t, first.ID, tree["1.1"].ApplicationID)
	assert.Equal(t, second.ID, tree["2.0"].ApplicationID)
	assert.Contains(t, tree["2.0"].DisplayTitle, "(latest)")
	assert.NotContains(t, tree["1.1"].DisplayTitle, "(latest)")
}

func TestBuildAppendOnly(t *testing.T) {
	app := newApplication()
	app.VersionTree = Build(app)

	seen := map[string]bool{"1.0": true}
	for i := 0; i < 4; i++ {
		app.AmendmentIterations = append(app.AmendmentIterations, newIteration())
		app.VersionTree = Build(app)
		for key := range seen {
			_, ok := app.VersionTree[key]
			assert.True(t, ok, "key %s disappeared", key)
		}
		for key := range app.VersionTree {
			seen[key] = true
		}
	}

	require.Len(t, app.VersionTree, 5)
	latest := 0
	for _, entry := range app.VersionTree {
		if entry.DisplayTitle == "Version 1.4 (latest)" {
			latest++
		}
	}
	assert.Equal(t, 1, latest)
}

func TestBuildIdempotentWhenNothingNew(t *testing.T) {
	app := newApplication()
	app.AmendmentIterations = models.AmendmentIterations{newIteration()}
	app.VersionTree = Build(app)

	again := Build(app)

	assert.Equal(t, app.VersionTree, again)
	assert.Contains(t, again["1.1"].DisplayTitle, "(latest)")
}

func TestBuildDoesNotStealLatestFromNewerMajor(t *testing.T) {
	second := newApplication()
	second.ApplicationType = models.ApplicationTypeResubmission
	second.MajorVersion = 2.0
	secondTree := Build(second)

	first := newApplication()
	first.VersionTree = secondTree
	first.AmendmentIterations = models.AmendmentIterations{newIteration()}

	tree := Build(first)

	assert.Contains(t, tree["2.0"].DisplayTitle, "(latest)")
	assert.NotContains(t, tree["1.1"].DisplayTitle, "(latest)")
}

func TestSortedLabels(t *testing.T) {
	tree := models.VersionTree{
		"1.0": {}, "1.2": {}, "1.10": {}, "2.0": {}, "1.1": {},
	}
	assert.Equal(t, []string{"1.0", "1.1", "1.2", "1.10", "2.0"}, SortedLabels(tree))
	assert.Equal(t, 2.0, HighestMajor(tree))
}
