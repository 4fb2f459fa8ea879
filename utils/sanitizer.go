package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy strips all markup from user-supplied strings
var StrictPolicy *bluemonday.Policy

func init() {
	StrictPolicy = bluemonday.StrictPolicy()
}

// SanitizeDisplayName cleans a user-supplied label display name: all HTML
// removed, surrounding whitespace trimmed.
func SanitizeDisplayName(name string) string {
	return strings.TrimSpace(StrictPolicy.Sanitize(name))
}

// SanitizeLabelName normalizes an internal label name: markup stripped,
// lowered, spaces collapsed to dashes.
func SanitizeLabelName(name string) string {
	clean := strings.TrimSpace(StrictPolicy.Sanitize(name))
	clean = strings.ToLower(clean)
	return strings.Join(strings.Fields(clean), "-")
}
