package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/job-parser/internal/types"
)

var termSeparators = strings.NewReplacer("-", "", " ", "", "\t", "")

// NormalizeItems trims items, drops ones of MinItemLength characters or
// fewer, removes case-insensitive duplicates keeping the first occurrence, and
// caps the result at MaxSectionItems. The result is never nil.
func NormalizeItems(items []string) []string {
	normalized := make([]string, 0, len(items))
	seen := make(map[string]bool)

	for _, item := range items {
		item = collapseSpaces(item)
		if utf8.RuneCountInString(item) <= types.MinItemLength {
			continue
		}

		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true

		normalized = append(normalized, item)
		if len(normalized) == types.MaxSectionItems {
			break
		}
	}

	return normalized
}

// canonicalTerm lower-cases a matched term and maps separator variants
// ("full time", "fulltime") to the hyphenated form.
func canonicalTerm(term string, canonical map[string]string) string {
	key := termSeparators.Replace(strings.ToLower(strings.TrimSpace(term)))
	if c, ok := canonical[key]; ok {
		return c
	}
	return key
}

// isShoutedHeading reports whether line is an all-caps line short enough to be
// a heading rather than an item.
func isShoutedHeading(line string) bool {
	if utf8.RuneCountInString(line) >= 50 {
		return false
	}
	cased := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func optional(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return types.StringPtr(s)
}
