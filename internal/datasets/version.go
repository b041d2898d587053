// internal/datasets/version.go
package datasets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

// semanticVersion is a parsed major.minor.patch dataset version.
type semanticVersion struct {
	major int
	minor int
	patch int
}

func (v semanticVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

func parseVersion(version string) (semanticVersion, error) {
	parts := strings.Split(strings.TrimSpace(version), ".")
	if len(parts) != 3 {
		return semanticVersion{}, apperrors.NewValidationError("datasetVersion",
			fmt.Sprintf("%q is not a major.minor.patch version", version))
	}
	out := semanticVersion{}
	for i, target := range []*int{&out.major, &out.minor, &out.patch} {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return semanticVersion{}, apperrors.NewValidationError("datasetVersion",
				fmt.Sprintf("%q is not a major.minor.patch version", version))
		}
		*target = n
	}
	return out, nil
}

// IncrementVersion bumps a semantic dataset version string. The bump kind is
// caller-selectable; an empty kind defaults to a patch bump.
func IncrementVersion(version string, bump models.VersionBump) (string, error) {
	parsed, err := parseVersion(version)
	if err != nil {
		return "", err
	}
	switch bump {
	case models.VersionBumpMajor:
		parsed = semanticVersion{major: parsed.major + 1}
	case models.VersionBumpMinor:
		parsed = semanticVersion{major: parsed.major, minor: parsed.minor + 1}
	case models.VersionBumpPatch, "":
		parsed.patch++
	default:
		return "", apperrors.NewValidationError("bump", fmt.Sprintf("unknown version bump %q", bump))
	}
	return parsed.String(), nil
}

// CompareVersions orders two dataset version strings: -1, 0 or 1.
func CompareVersions(a, b string) (int, error) {
	va, err := parseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := parseVersion(b)
	if err != nil {
		return 0, err
	}
	for _, pair := range [][2]int{{va.major, vb.major}, {va.minor, vb.minor}, {va.patch, vb.patch}} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1, nil
			}
			return 1, nil
		}
	}
	return 0, nil
}
