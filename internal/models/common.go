package models

import "regexp"

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// periodoPattern matches academic term identifiers: four-digit year, dash,
// single digit (e.g. "2025-1").
var periodoPattern = regexp.MustCompile(`^\d{4}-\d$`)

// ValidPeriodo reports whether the term identifier is well formed.
func ValidPeriodo(periodo string) bool {
	return periodoPattern.MatchString(periodo)
}
