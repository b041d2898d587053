// internal/versiontree/builder.go
package versiontree

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lgtm-migrator/gateway-api-sub001/internal/models"
)

const latestSuffix = " (latest)"

// Build computes the lineage map of an application from its persisted state.
// It merges onto the existing tree: keys already present are never removed or
// overwritten, so re-invocation with unchanged inputs returns the tree as-is.
// A nil application yields an empty tree.
func Build(app *models.DataAccessRequest) models.VersionTree {
	if app == nil {
		return models.VersionTree{}
	}

	major := app.MajorVersion
	if major == 0 {
		major = 1.0
	}

	tree := cloneTree(app.VersionTree)

	type candidate struct {
		key   string
		entry models.VersionTreeEntry
	}

	majorKey := majorLabel(major)
	candidates := []candidate{{
		key: majorKey,
		entry: models.VersionTreeEntry{
			ApplicationID:     app.ID,
			DisplayTitle:      "Version " + majorKey,
			DetailedTitle:     "Version " + majorKey + majorSuffix(app.ApplicationType),
			Link:              applicationLink(app),
			ApplicationType:   app.ApplicationType,
			ApplicationStatus: app.ApplicationStatus,
			IsShared:          app.IsShared,
		},
	}}

	minorVersion := 0
	for i := range app.AmendmentIterations {
		it := &app.AmendmentIterations[i]
		minorVersion++
		key := minorLabel(major, minorVersion)
		iterationID := it.ID
		candidates = append(candidates, candidate{
			key: key,
			entry: models.VersionTreeEntry{
				ApplicationID: app.ID,
				IterationID:   &iterationID,
				DisplayTitle:  "Version " + key,
				DetailedTitle: "Version " + key + " | Update",
				Link:          applicationLink(app) + "?iterationId=" + iterationID.String(),
			},
		})
	}

	var fresh []candidate
	for _, c := range candidates {
		if _, ok := tree[c.key]; !ok {
			fresh = append(fresh, c)
		}
	}
	if len(fresh) == 0 {
		return tree
	}

	// A newer major version in the tree keeps its "(latest)" mark; entries
	// merged in for an older major never claim it.
	markLatest := major >= highestMajor(tree)
	if markLatest {
		for key, entry := range tree {
			tree[key] = stripLatest(entry)
		}
		last := &fresh[len(fresh)-1]
		last.entry.DisplayTitle = insertLatest(last.entry.DisplayTitle, "")
		if last.entry.IterationID != nil {
			last.entry.DetailedTitle = insertLatest(last.entry.DetailedTitle, " | Update")
		} else {
			last.entry.DetailedTitle = insertLatest(last.entry.DetailedTitle, majorSuffix(last.entry.ApplicationType))
		}
	}

	for _, c := range fresh {
		tree[c.key] = c.entry
	}
	return tree
}

// HighestMajor returns the highest major version recorded in the tree, or 0
// for an empty tree.
func HighestMajor(tree models.VersionTree) float64 {
	return highestMajor(tree)
}

// SortedLabels returns the tree's version labels in ascending version order.
func SortedLabels(tree models.VersionTree) []string {
	labels := make([]string, 0, len(tree))
	for key := range tree {
		labels = append(labels, key)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labelValue(labels[i]) < labelValue(labels[j])
	})
	return labels
}

func cloneTree(tree models.VersionTree) models.VersionTree {
	out := make(models.VersionTree, len(tree))
	for key, entry := range tree {
		out[key] = entry
	}
	return out
}

func majorLabel(major float64) string {
	return fmt.Sprintf("%d.0", int(major))
}

func minorLabel(major float64, minor int) string {
	return fmt.Sprintf("%d.%d", int(major), minor)
}

func majorSuffix(appType models.ApplicationType) string {
	if appType == "" || appType == models.ApplicationTypeInitial {
		return ""
	}
	return " | " + capitalize(string(appType))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func applicationLink(app *models.DataAccessRequest) string {
	return "/data-access-request/" + app.ID.String()
}

func stripLatest(entry models.VersionTreeEntry) models.VersionTreeEntry {
	entry.DisplayTitle = strings.ReplaceAll(entry.DisplayTitle, latestSuffix, "")
	entry.DetailedTitle = strings.ReplaceAll(entry.DetailedTitle, latestSuffix, "")
	return entry
}

// insertLatest places the latest suffix ahead of the trailing type suffix,
// e.g. "Version 1.1 (latest) | Update".
func insertLatest(title, trailer string) string {
	if trailer == "" {
		return title + latestSuffix
	}
	base := strings.TrimSuffix(title, trailer)
	return base + latestSuffix + trailer
}

func highestMajor(tree models.VersionTree) float64 {
	highest := 0.0
	for key := range tree {
		if v := labelValue(key); v > highest {
			highest = v
		}
	}
	return float64(int(highest))
}

// labelValue orders version labels numerically so that "1.10" sorts after
// "1.2" rather than between "1.1" and "1.2".
func labelValue(label string) float64 {
	parts := strings.SplitN(label, ".", 2)
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minor := 0
	if len(parts) == 2 {
		minor, _ = strconv.Atoi(parts[1])
	}
	return float64(major) + float64(minor)/1000
}
