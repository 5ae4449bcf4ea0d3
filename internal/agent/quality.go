// File: internal/agent/quality.go
package agent

import (
	"fmt"
	"math"
	"sort"

	"github.com/sgrimault/webharvest/api/schemas"
)

// Analyze scores extracted items for completeness. An item is complete when
// no field at any nesting depth is null or an empty string. Missing-field
// paths use dot notation; list elements share their parent's path with no
// index, so a report line counts occurrences across the whole extraction.
func Analyze(items []map[string]interface{}) schemas.QualityReport {
	report := schemas.EmptyQualityReport()
	report.TotalItems = len(items)
	if len(items) == 0 {
		return report
	}

	counts := make(map[string]int)
	var order []string
	record := func(path string) {
		if _, seen := counts[path]; !seen {
			order = append(order, path)
		}
		counts[path]++
	}

	for _, item := range items {
		if walkCompleteness(item, "", record) {
			report.CompleteItems++
		}
	}

	rate := float64(report.CompleteItems) / float64(report.TotalItems)
	report.CompletionRate = math.Round(rate*1000) / 1000

	for _, path := range order {
		report.MissingFields = append(report.MissingFields,
			fmt.Sprintf("%s: %d items", path, counts[path]))
	}
	return report
}

// walkCompleteness reports whether the value subtree is complete, recording
// every null or empty-string leaf. Map keys are visited in sorted order so
// the report is deterministic for a given input.
func walkCompleteness(value interface{}, prefix string, record func(path string)) bool {
	complete := true

	switch v := value.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			child := v[k]
			if child == nil || child == "" {
				record(path)
				complete = false
				continue
			}
			switch child.(type) {
			case map[string]interface{}, []interface{}:
				if !walkCompleteness(child, path, record) {
					complete = false
				}
			}
		}

	case []interface{}:
		for _, element := range v {
			if !walkCompleteness(element, prefix, record) {
				complete = false
			}
		}
	}

	return complete
}
