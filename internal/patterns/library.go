// Package patterns holds the read-only selector, regex and keyword tables used
// to extract job postings from board-specific and generic markup.
package patterns

import (
	"regexp"
	"strings"

	"github.com/jonathan/job-parser/internal/types"
)

// Version identifies the revision of the built-in tables.
const Version = "2026.10"

// Field names a scalar field of a job posting that has a lookup chain.
type Field string

const (
	FieldCompany     Field = "company"
	FieldTitle       Field = "title"
	FieldLocation    Field = "location"
	FieldDescription Field = "description"
	FieldSalary      Field = "salary"
)

// Fields lists every field that has selectors in the library.
var Fields = []Field{FieldCompany, FieldTitle, FieldLocation, FieldDescription, FieldSalary}

// SourceProbe is a set of lower-case substrings that identify a job board.
type SourceProbe struct {
	Kind   types.SourceKind
	Probes []string
}

// SectionHeaders are the line-anchored heading patterns used to split a
// description into sections.
type SectionHeaders struct {
	Requirements     *regexp.Regexp
	Responsibilities *regexp.Regexp
	NextSection      *regexp.Regexp
	Benefits         *regexp.Regexp
}

// Library is the full set of extraction tables. Use Default to get a private
// copy; nothing in this package mutates a Library after it has been returned.
type Library struct {
	Version string

	// SourceProbes are checked in order; the first matching source wins.
	SourceProbes []SourceProbe

	Selectors     map[types.SourceKind]map[Field][]string
	FieldPatterns map[types.SourceKind]map[Field][]*regexp.Regexp

	RemoteKeywords []string
	HybridKeywords []string
	OnsiteKeywords []string

	JobTypePatterns         []*regexp.Regexp
	ExperienceLevelPatterns []*regexp.Regexp
	SalaryPatterns          []*regexp.Regexp

	// CanonicalTerms maps a separator-free lower-case term to its hyphenated form.
	CanonicalTerms map[string]string

	Headers        SectionHeaders
	HeaderPrefixes []string

	// TitleSuffix strips the " - Site" or " | Site" tail of a <title>.
	TitleSuffix *regexp.Regexp
}

// Default returns a deep copy of the built-in library.
func Default() *Library {
	return builtin.Clone()
}

// Clone returns a deep copy of l. Compiled regexps are shared since they are
// immutable.
func (l *Library) Clone() *Library {
	out := &Library{
		Version:                 l.Version,
		RemoteKeywords:          cloneStrings(l.RemoteKeywords),
		HybridKeywords:          cloneStrings(l.HybridKeywords),
		OnsiteKeywords:          cloneStrings(l.OnsiteKeywords),
		JobTypePatterns:         cloneRegexps(l.JobTypePatterns),
		ExperienceLevelPatterns: cloneRegexps(l.ExperienceLevelPatterns),
		SalaryPatterns:          cloneRegexps(l.SalaryPatterns),
		Headers:                 l.Headers,
		HeaderPrefixes:          cloneStrings(l.HeaderPrefixes),
		TitleSuffix:             l.TitleSuffix,
		CanonicalTerms:          make(map[string]string, len(l.CanonicalTerms)),
		Selectors:               make(map[types.SourceKind]map[Field][]string, len(l.Selectors)),
		FieldPatterns:           make(map[types.SourceKind]map[Field][]*regexp.Regexp, len(l.FieldPatterns)),
	}

	for _, p := range l.SourceProbes {
		out.SourceProbes = append(out.SourceProbes, SourceProbe{Kind: p.Kind, Probes: cloneStrings(p.Probes)})
	}
	for k, v := range l.CanonicalTerms {
		out.CanonicalTerms[k] = v
	}
	for kind, fields := range l.Selectors {
		m := make(map[Field][]string, len(fields))
		for f, sels := range fields {
			m[f] = cloneStrings(sels)
		}
		out.Selectors[kind] = m
	}
	for kind, fields := range l.FieldPatterns {
		m := make(map[Field][]*regexp.Regexp, len(fields))
		for f, res := range fields {
			m[f] = cloneRegexps(res)
		}
		out.FieldPatterns[kind] = m
	}
	return out
}

// SelectorsFor returns the ordered selectors for a source and field.
func (l *Library) SelectorsFor(kind types.SourceKind, field Field) []string {
	return l.Selectors[kind][field]
}

// PatternsFor returns the ordered regex fallbacks for a source and field.
func (l *Library) PatternsFor(kind types.SourceKind, field Field) []*regexp.Regexp {
	return l.FieldPatterns[kind][field]
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneRegexps(in []*regexp.Regexp) []*regexp.Regexp {
	if in == nil {
		return nil
	}
	out := make([]*regexp.Regexp, len(in))
	copy(out, in)
	return out
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
