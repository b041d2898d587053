// internal/datasets/version_test.go
package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

func TestIncrementVersion(t *testing.T) {
	tests := []struct {
		version  string
		bump     models.VersionBump
		expected string
	}{
		{"1.0.0", models.VersionBumpPatch, "1.0.1"},
		{"1.0.0", "", "1.0.1"},
		{"1.0.9", models.VersionBumpMinor, "1.1.0"},
		{"1.4.2", models.VersionBumpMajor, "2.0.0"},
		{"0.0.0", models.VersionBumpPatch, "0.0.1"},
	}

	for _, tt := range tests {
		got, err := IncrementVersion(tt.version, tt.bump)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}

func TestIncrementVersionRejectsMalformed(t *testing.T) {
	for _, version := range []string{"", "1.0", "1.0.0.0", "v1.0.0", "1.-1.0", "1.0.x"} {
		_, err := IncrementVersion(version, models.VersionBumpPatch)
		var validation *apperrors.ValidationError
		assert.ErrorAs(t, err, &validation, "version %q", version)
	}

	_, err := IncrementVersion("1.0.0", models.VersionBump("huge"))
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"2.0.0", "1.9.9", 1},
		{"1.2.0", "1.10.0", -1},
	}
	for _, tt := range tests {
		got, err := CompareVersions(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "%s vs %s", tt.a, tt.b)
	}
}
