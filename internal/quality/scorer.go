// internal/quality/scorer.go
package quality

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

var v2Schema *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(datasetV2Schema))
	if err != nil {
		panic(fmt.Sprintf("quality: invalid dataset v2 schema: %v", err))
	}
	v2Schema = schema
}

// Rating bands for the weighted quality score.
const (
	RatingPlatinum = "Platinum"
	RatingGold     = "Gold"
	RatingSilver   = "Silver"
	RatingBronze   = "Bronze"
	RatingNotRated = "Not Rated"
)

// dateFields are the v2 paths normalized to ISO-8601 before scoring.
var dateFields = [][]string{
	{"provenance", "temporal", "startDate"},
	{"provenance", "temporal", "endDate"},
	{"provenance", "temporal", "distributionReleaseDate"},
	{"observations", "observationDate"},
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"2006/01/02",
	"2 January 2006",
	"January 2006",
}

// BuildMetadataQuality scores a dataset's v2 metadata object. Pure: the same
// v2 object and structural metadata always yield the same scores.
func BuildMetadataQuality(dataset *models.Dataset) *models.MetadataQuality {
	cleaned := CleanV2Object(dataset.DatasetV2, dataset.StructuralMetadata)

	totalWeight := 0.0
	presentPaths := map[string]bool{}
	for _, fw := range fieldWeights {
		if anyPresent(valuesAt(cleaned, strings.Split(fw.Path, "."))) {
			presentPaths[fw.Path] = true
			totalWeight += fw.Weight
		}
	}

	errorWeight := 0.0
	for path := range validationErrorPaths(cleaned) {
		for _, fw := range fieldWeights {
			if fw.Path == path && presentPaths[path] {
				errorWeight += fw.Weight
				break
			}
		}
	}

	// The historical score formula; it can exceed 100 when most fields are
	// present and valid. Rating bands depend on this exact distribution.
	score := 50 * (totalWeight + (1 - errorWeight))

	return &models.MetadataQuality{
		PID:                         dataset.PID,
		DatasetID:                   dataset.ID,
		Publisher:                   stringValue(cleaned, "summary", "publisher", "name"),
		Title:                       stringValue(cleaned, "summary", "title"),
		WeightedQualityScore:        round2(score),
		WeightedCompletenessPercent: round2(100 * totalWeight),
		WeightedErrorPercent:        round2(100 * errorWeight),
		WeightedQualityRating:       RatingForScore(score),
	}
}

// RatingForScore maps a weighted quality score onto its rating band.
func RatingForScore(score float64) string {
	switch {
	case score > 90:
		return RatingPlatinum
	case score > 80:
		return RatingGold
	case score > 70:
		return RatingSilver
	case score > 60:
		return RatingBronze
	default:
		return RatingNotRated
	}
}

// CleanV2Object deep-copies the v2 object, normalizes its date fields to
// ISO-8601 and grafts the structural metadata summary on, ready for presence
// checks and schema validation.
func CleanV2Object(v2 models.JSONB, structural models.StructuralMetadata) models.JSONB {
	cleaned, _ := deepCopy(map[string]interface{}(v2)).(map[string]interface{})
	if cleaned == nil {
		cleaned = map[string]interface{}{}
	}

	for _, path := range dateFields {
		normalizeDates(cleaned, path)
	}

	tables := make([]interface{}, 0, len(structural))
	for _, table := range structural {
		if table.TableName != "" {
			tables = append(tables, table.TableName)
		}
	}
	cleaned["structuralMetadata"] = map[string]interface{}{
		"tables":           tables,
		"dataClassesCount": len(tables),
	}
	return models.JSONB(cleaned)
}

// validationErrorPaths validates the cleaned object against the fixed schema
// and returns the weighted-style paths (array indexes removed) that failed.
func validationErrorPaths(cleaned models.JSONB) map[string]bool {
	result, err := v2Schema.Validate(gojsonschema.NewGoLoader(map[string]interface{}(cleaned)))
	if err != nil || result.Valid() {
		return nil
	}
	paths := map[string]bool{}
	for _, resultError := range result.Errors() {
		paths[normalizeErrorField(resultError.Field())] = true
	}
	return paths
}

// normalizeErrorField collapses "observations.2.observedNode" onto the
// weighted path "observations.observedNode".
func normalizeErrorField(field string) string {
	parts := strings.Split(field, ".")
	kept := parts[:0]
	for _, part := range parts {
		if _, err := strconv.Atoi(part); err == nil {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, ".")
}

// valuesAt resolves a dot path, fanning out across array elements.
func valuesAt(obj interface{}, path []string) []interface{} {
	if len(path) == 0 {
		return []interface{}{obj}
	}
	switch node := obj.(type) {
	case models.JSONB:
		return valuesAt(map[string]interface{}(node), path)
	case map[string]interface{}:
		child, ok := node[path[0]]
		if !ok {
			return nil
		}
		return valuesAt(child, path[1:])
	case []interface{}:
		var out []interface{}
		for _, item := range node {
			out = append(out, valuesAt(item, path)...)
		}
		return out
	default:
		return nil
	}
}

func anyPresent(values []interface{}) bool {
	for _, v := range values {
		if isPresent(v) {
			return true
		}
	}
	return false
}

// isPresent implements the single generic presence predicate: non-empty
// string, array or object; any number or true boolean.
func isPresent(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(value) != ""
	case []interface{}:
		return anyPresent(value)
	case map[string]interface{}:
		for _, child := range value {
			if isPresent(child) {
				return true
			}
		}
		return false
	case float64:
		return value != 0
	case int:
		return value != 0
	case bool:
		return value
	default:
		return true
	}
}

func normalizeDates(obj interface{}, path []string) {
	if len(path) == 0 {
		return
	}
	switch node := obj.(type) {
	case map[string]interface{}:
		if len(path) == 1 {
			if raw, ok := node[path[0]].(string); ok {
				node[path[0]] = toISODate(raw)
			}
			return
		}
		normalizeDates(node[path[0]], path[1:])
	case []interface{}:
		for _, item := range node {
			normalizeDates(item, path)
		}
	}
}

func toISODate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return raw
}

func deepCopy(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(value))
		for k, child := range value {
			out[k] = deepCopy(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, child := range value {
			out[i] = deepCopy(child)
		}
		return out
	default:
		return value
	}
}

func stringValue(obj models.JSONB, path ...string) string {
	values := valuesAt(obj, path)
	if len(values) == 0 {
		return ""
	}
	s, _ := values[0].(string)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
