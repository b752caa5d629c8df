package tracker

import (
	"strings"
	"unicode"

	"go-jobtrack/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StatusFilterAll is the sentinel that disables status filtering.
const StatusFilterAll = "all"

// normalizeText lowercases and strips diacritics so "Hà Nội" matches "ha noi".
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// FilterApplications derives the visible subset of records: a non-empty
// search term keeps records whose company, position or location contains it
// (case- and accent-insensitive, a missing location never matches), then a
// status filter other than "all" keeps matching statuses only. Pure, and
// preserves the input ordering.
func FilterApplications(records []models.JobApplication, searchTerm, statusFilter string) []models.JobApplication {
	filtered := records

	if searchTerm != "" {
		term := normalizeText(searchTerm)
		var matched []models.JobApplication
		for _, app := range filtered {
			if strings.Contains(normalizeText(app.CompanyName), term) ||
				strings.Contains(normalizeText(app.PositionTitle), term) ||
				(app.Location != nil && strings.Contains(normalizeText(*app.Location), term)) {
				matched = append(matched, app)
			}
		}
		filtered = matched
	}

	if statusFilter != StatusFilterAll && statusFilter != "" {
		var matched []models.JobApplication
		for _, app := range filtered {
			if string(app.Status) == statusFilter {
				matched = append(matched, app)
			}
		}
		filtered = matched
	}

	return filtered
}
