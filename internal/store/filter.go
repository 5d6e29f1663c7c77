package store

import (
	"path/filepath"
	"strings"

	"ttc/internal/domain"
)

// FilterByName filters records by test name using wildcard matching.
// Supports patterns like "Steel*" or "*rod*"; a pattern without wildcards
// matches as a substring.
func FilterByName(records []domain.TestRecord, pattern string) []domain.TestRecord {
	if pattern == "" {
		return records
	}

	var filtered []domain.TestRecord
	for _, rec := range records {
		if matchName(rec.Name, pattern) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// FilterGroups applies FilterByName within every date group, dropping groups
// left empty.
func FilterGroups(groups []domain.DateGroup, pattern string) []domain.DateGroup {
	if pattern == "" {
		return groups
	}

	var filtered []domain.DateGroup
	for _, g := range groups {
		records := FilterByName(g.Records, pattern)
		if len(records) > 0 {
			filtered = append(filtered, domain.DateGroup{Date: g.Date, Records: records})
		}
	}
	return filtered
}

func matchName(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	// filepath.Match is anchored; fall back to ordered substring matching
	// for patterns like "*rod*" so partial names still hit.
	if strings.ContainsAny(pattern, "*?") {
		rest := name
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			idx := strings.Index(rest, part)
			if idx < 0 {
				return false
			}
			rest = rest[idx+len(part):]
		}
		return strings.Trim(pattern, "*") != ""
	}

	return strings.Contains(name, pattern)
}
