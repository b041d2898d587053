// internal/datasets/lifecycle.go
package datasets

import (
	"strings"
	"time"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/apperrors"
	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

// Submit moves a draft record into review.
func Submit(d *models.Dataset, now time.Time) error {
	if d == nil {
		return apperrors.NewValidationError("dataset", "dataset is required")
	}
	if d.ActiveFlag != models.ActiveFlagDraft {
		return apperrors.NewInvalidStateError("dataset", string(d.ActiveFlag), "submit")
	}
	d.ActiveFlag = models.ActiveFlagInReview
	d.Timestamps.Submitted = &now
	return nil
}

// Approve activates an inReview record. When an active sibling exists for
// the same pid it is archived first, and its counter and discourse topic are
// carried forward so page stats and discussion threads survive the version
// change. The caller is responsible for the ADMIN permission check and for
// persisting the sibling before the approved record (archive-old-then-
// activate-new write ordering).
func Approve(d *models.Dataset, activeSibling *models.Dataset, now time.Time) error {
	if d == nil {
		return apperrors.NewValidationError("dataset", "dataset is required")
	}
	if d.ActiveFlag != models.ActiveFlagInReview {
		return apperrors.NewInvalidStateError("dataset", string(d.ActiveFlag), "approve")
	}
	if activeSibling != nil {
		if activeSibling.PID != d.PID {
			return apperrors.NewValidationError("dataset", "active sibling has a different pid")
		}
		activeSibling.ActiveFlag = models.ActiveFlagArchive
		activeSibling.Timestamps.Archived = &now
		d.Counter = activeSibling.Counter
		d.DiscourseTopicID = activeSibling.DiscourseTopicID
	}
	d.ActiveFlag = models.ActiveFlagActive
	d.Timestamps.Published = &now
	d.CommercialUse = ComputeCommercialUse(d.DatasetV2)
	return nil
}

// Reject moves an inReview record to rejected, recording the reason.
func Reject(d *models.Dataset, reason string, now time.Time) error {
	if d == nil {
		return apperrors.NewValidationError("dataset", "dataset is required")
	}
	if d.ActiveFlag != models.ActiveFlagInReview {
		return apperrors.NewInvalidStateError("dataset", string(d.ActiveFlag), "reject")
	}
	d.ActiveFlag = models.ActiveFlagRejected
	d.ApplicationStatusDesc = reason
	d.Timestamps.Rejected = &now
	return nil
}

// Archive retires an active record.
func Archive(d *models.Dataset, now time.Time) error {
	if d == nil {
		return apperrors.NewValidationError("dataset", "dataset is required")
	}
	if d.ActiveFlag != models.ActiveFlagActive {
		return apperrors.NewInvalidStateError("dataset", string(d.ActiveFlag), "archive")
	}
	d.ActiveFlag = models.ActiveFlagArchive
	d.Timestamps.Archived = &now
	return nil
}

// Unarchive restores an archived record. A record that was ever submitted
// restores to active; one archived before any submission restores to draft.
func Unarchive(d *models.Dataset, now time.Time) error {
	if d == nil {
		return apperrors.NewValidationError("dataset", "dataset is required")
	}
	if d.ActiveFlag != models.ActiveFlagArchive {
		return apperrors.NewInvalidStateError("dataset", string(d.ActiveFlag), "unarchive")
	}
	if d.EverSubmitted() {
		d.ActiveFlag = models.ActiveFlagActive
	} else {
		d.ActiveFlag = models.ActiveFlagDraft
	}
	d.Timestamps.Unarchived = &now
	return nil
}

// ComputeCommercialUse derives the commercial-use flag from the v2 metadata:
// a Gold/Platinum allowable-uses rating, or a data-use limitation permitting
// unrestricted/commercial research use without a not-for-profit restriction.
func ComputeCommercialUse(v2 models.JSONB) bool {
	allowableUses := stringAt(v2, "dataUtility", "allowable_uses")
	if allowableUses == "Gold" || allowableUses == "Platinum" {
		return true
	}

	limitations := stringsAt(v2, "accessibility", "usage", "dataUseLimitation")
	permitted := false
	for _, limitation := range limitations {
		switch strings.ToUpper(strings.TrimSpace(limitation)) {
		case "NOT FOR PROFIT USE":
			return false
		case "NO RESTRICTION", "COMMERCIAL RESEARCH USE":
			permitted = true
		}
	}
	return permitted
}

func stringAt(obj models.JSONB, path ...string) string {
	var current interface{} = map[string]interface{}(obj)
	for _, key := range path {
		node, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current = node[key]
	}
	s, _ := current.(string)
	return s
}

func stringsAt(obj models.JSONB, path ...string) []string {
	var current interface{} = map[string]interface{}(obj)
	for _, key := range path {
		node, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = node[key]
	}
	switch v := current.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}
