package domain

import (
	"regexp"
	"strings"
)

// CategoryDelimiter separates levels in the raw category string coming
// from the product feed, e.g. "Computers&Accessories|Accessories&Peripherals|Cables|USBCables".
const CategoryDelimiter = "|"

// BreadcrumbEllipsis replaces the collapsed middle levels of deep paths.
const BreadcrumbEllipsis = "..."

const breadcrumbSeparator = " > "

// CategoryLevels holds the first four levels and the leaf of a category
// path individually. Missing levels are empty strings.
type CategoryLevels struct {
	Top  string `json:"top"`
	Mid  string `json:"mid"`
	Sub1 string `json:"sublevel1"`
	Sub2 string `json:"sublevel2"`
	Leaf string `json:"leaf"`
}

// ParsedCategory is the structured form of a raw category string.
type ParsedCategory struct {
	Full       string         `json:"full"`
	Path       []string       `json:"path"`
	Levels     CategoryLevels `json:"levels"`
	Breadcrumb string         `json:"breadcrumb"`
}

var (
	ampRegex     = regexp.MustCompile(`&`)
	camelRegex   = regexp.MustCompile(`([a-z])([A-Z])`)
	acronymRegex = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	multiWSRegex = regexp.MustCompile(`\s+`)
)

// FormatDisplayName turns a raw category segment into a readable name:
// "USBCable" -> "USB Cable", "Computers&Accessories" -> "Computers & Accessories".
// The three insertion rules run in order; later rules assume earlier
// spacing has not yet been collapsed. The ellipsis placeholder passes
// through unchanged.
func FormatDisplayName(name string) string {
	if name == "" || name == BreadcrumbEllipsis {
		return name
	}

	name = ampRegex.ReplaceAllString(name, " & ")
	name = camelRegex.ReplaceAllString(name, "$1 $2")
	name = acronymRegex.ReplaceAllString(name, "$1 $2")
	name = multiWSRegex.ReplaceAllString(name, " ")

	return strings.TrimSpace(name)
}

// ParseCategory splits a delimited category string into structured levels
// and a display breadcrumb. It never fails: a string without the delimiter
// yields a single-segment path whose top and leaf are that segment.
func ParseCategory(categoryStr string) ParsedCategory {
	parts := splitCategory(categoryStr)

	levels := CategoryLevels{
		Leaf: lastSegment(parts),
	}
	if len(parts) > 0 {
		levels.Top = parts[0]
	}
	if len(parts) > 1 {
		levels.Mid = parts[1]
	}
	if len(parts) > 2 {
		levels.Sub1 = parts[2]
	}
	if len(parts) > 3 {
		levels.Sub2 = parts[3]
	}

	// Breadcrumb keeps at most the first four levels plus the leaf,
	// collapsing the middle of deeper paths into an ellipsis.
	var breadcrumbParts []string
	if len(parts) <= 5 {
		breadcrumbParts = parts
	} else {
		breadcrumbParts = append(breadcrumbParts, parts[:4]...)
		breadcrumbParts = append(breadcrumbParts, BreadcrumbEllipsis, parts[len(parts)-1])
	}

	formatted := make([]string, 0, len(breadcrumbParts))
	for _, p := range breadcrumbParts {
		formatted = append(formatted, FormatDisplayName(p))
	}

	return ParsedCategory{
		Full:       categoryStr,
		Path:       parts,
		Levels:     levels,
		Breadcrumb: strings.Join(formatted, breadcrumbSeparator),
	}
}

// TopCategory returns the formatted first level of a category string.
func TopCategory(categoryStr string) string {
	parts := splitCategory(categoryStr)
	if len(parts) == 0 {
		return ""
	}
	return FormatDisplayName(parts[0])
}

// LeafCategory returns the formatted last level of a category string.
func LeafCategory(categoryStr string) string {
	return FormatDisplayName(lastSegment(splitCategory(categoryStr)))
}

// MatchesSearch reports whether the term matches any formatted segment of
// the category path, case-insensitively.
func MatchesSearch(categoryStr, term string) bool {
	term = strings.ToLower(term)
	for _, part := range splitCategory(categoryStr) {
		if strings.Contains(strings.ToLower(FormatDisplayName(part)), term) {
			return true
		}
	}
	return false
}

func splitCategory(categoryStr string) []string {
	raw := strings.Split(categoryStr, CategoryDelimiter)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func lastSegment(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
