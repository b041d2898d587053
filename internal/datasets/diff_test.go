// internal/datasets/diff_test.go
package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

func TestDiffSingleFieldChange(t *testing.T) {
	previous := models.JSONB{
		"summary": map[string]interface{}{"title": "Old", "abstract": "Same"},
	}
	updated := models.JSONB{
		"summary": map[string]interface{}{"title": "New", "abstract": "Same"},
	}

	changes := Diff(updated, previous)

	require.Len(t, changes, 1)
	change, ok := changes[0]["summary/title"]
	require.True(t, ok)
	assert.Equal(t, "New", change.UpdatedAnswer)
	assert.Equal(t, "Old", change.PreviousAnswer)
}

func TestDiffIdenticalObjectsIsEmpty(t *testing.T) {
	v2 := models.JSONB{
		"summary": map[string]interface{}{
			"title":    "Same",
			"keywords": []interface{}{"cancer", "registry"},
		},
	}
	assert.Empty(t, Diff(v2, v2))
}

func TestDiffScalarArraysComparedCommaJoined(t *testing.T) {
	previous := models.JSONB{
		"summary": map[string]interface{}{"keywords": []interface{}{"cancer", "registry"}},
	}
	updated := models.JSONB{
		"summary": map[string]interface{}{"keywords": []interface{}{"cancer", "registry", "audit"}},
	}

	changes := Diff(updated, previous)

	require.Len(t, changes, 1)
	change := changes[0]["summary/keywords"]
	assert.Equal(t, "cancer,registry,audit", change.UpdatedAnswer)
	assert.Equal(t, "cancer,registry", change.PreviousAnswer)
}

func TestDiffAddedObjectArrayElement(t *testing.T) {
	previous := models.JSONB{
		"observations": []interface{}{
			map[string]interface{}{"observedNode": "PERSONS", "measuredValue": "1000"},
		},
	}
	updated := models.JSONB{
		"observations": []interface{}{
			map[string]interface{}{"observedNode": "PERSONS", "measuredValue": "1000"},
			map[string]interface{}{"observedNode": "EVENTS", "measuredValue": "50"},
		},
	}

	changes := Diff(updated, previous)

	byPath := map[string]AnswerChange{}
	for _, entry := range changes {
		for path, change := range entry {
			byPath[path] = change
		}
	}

	require.Len(t, byPath, 2)
	assert.Equal(t, AnswerChange{UpdatedAnswer: "EVENTS", PreviousAnswer: ""},
		byPath["observations/1/observedNode"])
	assert.Equal(t, AnswerChange{UpdatedAnswer: "50", PreviousAnswer: ""},
		byPath["observations/1/measuredValue"])
}

func TestDiffRemovedLeaf(t *testing.T) {
	previous := models.JSONB{
		"documentation": map[string]interface{}{"description": "present before"},
	}
	updated := models.JSONB{}

	changes := Diff(updated, previous)

	require.Len(t, changes, 1)
	change := changes[0]["documentation/description"]
	assert.Equal(t, "", change.UpdatedAnswer)
	assert.Equal(t, "present before", change.PreviousAnswer)
}

func TestDiffNumbersAndBooleans(t *testing.T) {
	previous := models.JSONB{"coverage": map[string]interface{}{"followup": float64(6), "ongoing": true}}
	updated := models.JSONB{"coverage": map[string]interface{}{"followup": float64(12), "ongoing": false}}

	changes := Diff(updated, previous)

	byPath := map[string]AnswerChange{}
	for _, entry := range changes {
		for path, change := range entry {
			byPath[path] = change
		}
	}
	assert.Equal(t, AnswerChange{UpdatedAnswer: "12", PreviousAnswer: "6"}, byPath["coverage/followup"])
	assert.Equal(t, AnswerChange{UpdatedAnswer: "false", PreviousAnswer: "true"}, byPath["coverage/ongoing"])
}

func TestDiffDeterministicOrder(t *testing.T) {
	previous := models.JSONB{"b": "1", "a": "1", "c": "1"}
	updated := models.JSONB{"b": "2", "a": "2", "c": "2"}

	first := Diff(updated, previous)
	second := Diff(updated, previous)
	assert.Equal(t, first, second)

	paths := []string{}
	for _, entry := range first {
		for path := range entry {
			paths = append(paths, path)
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, paths)
}
