// internal/datasets/diff.go
package datasets

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

// AnswerChange records one field's value before and after a resubmission.
type AnswerChange struct {
	UpdatedAnswer  string `json:"updatedAnswer"`
	PreviousAnswer string `json:"previousAnswer"`
}

// DiffEntry maps one slash-joined field path to its change.
type DiffEntry map[string]AnswerChange

// Diff deep-walks two v2 metadata objects and reports every leaf path whose
// value differs, keyed by the slash-joined path. Scalar arrays are compared
// as comma-joined strings; array elements only present on one side appear as
// an indexed path with the other side empty. Equal paths are omitted.
func Diff(updated, previous models.JSONB) []DiffEntry {
	updatedLeaves := map[string]string{}
	previousLeaves := map[string]string{}
	flatten("", map[string]interface{}(updated), updatedLeaves)
	flatten("", map[string]interface{}(previous), previousLeaves)

	paths := make([]string, 0, len(updatedLeaves)+len(previousLeaves))
	seen := map[string]bool{}
	for path := range updatedLeaves {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	for path := range previousLeaves {
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	var changes []DiffEntry
	for _, path := range paths {
		updatedValue := updatedLeaves[path]
		previousValue := previousLeaves[path]
		if updatedValue == previousValue {
			continue
		}
		changes = append(changes, DiffEntry{
			path: {UpdatedAnswer: updatedValue, PreviousAnswer: previousValue},
		})
	}
	return changes
}

func flatten(prefix string, value interface{}, out map[string]string) {
	switch v := value.(type) {
	case map[string]interface{}:
		if len(v) == 0 && prefix != "" {
			out[prefix] = ""
			return
		}
		for key, child := range v {
			flatten(joinPath(prefix, key), child, out)
		}
	case []interface{}:
		if scalarsOnly(v) {
			out[prefix] = joinScalars(v)
			return
		}
		for i, child := range v {
			flatten(joinPath(prefix, strconv.Itoa(i)), child, out)
		}
	case nil:
		if prefix != "" {
			out[prefix] = ""
		}
	default:
		out[prefix] = stringify(v)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

func scalarsOnly(values []interface{}) bool {
	for _, v := range values {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			return false
		}
	}
	return true
}

func joinScalars(values []interface{}) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, stringify(v))
	}
	return strings.Join(parts, ",")
}

func stringify(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}
