package parsing

import (
	"strings"

	"github.com/jonathan/job-parser/internal/markup"
	"github.com/jonathan/job-parser/internal/patterns"
	"github.com/jonathan/job-parser/internal/types"
)

// FieldResolver finds the value of a single scalar field in a document.
type FieldResolver interface {
	ExtractField(doc markup.Document, raw string, kind types.SourceKind, field patterns.Field) (string, bool)
}

// FieldExtractor resolves fields with an ordered chain: source selectors, then
// regex fallbacks over the raw document, then heading heuristics for the title.
type FieldExtractor struct {
	lib     *patterns.Library
	signals *Signals
}

// NewFieldExtractor builds a FieldExtractor over lib.
func NewFieldExtractor(lib *patterns.Library) *FieldExtractor {
	return &FieldExtractor{lib: lib, signals: NewSignals(lib)}
}

// ExtractField returns the field value and whether one was found. A missing
// field is a normal result.
func (f *FieldExtractor) ExtractField(doc markup.Document, raw string, kind types.SourceKind, field patterns.Field) (string, bool) {
	if v, ok := f.fromSelectors(doc, kind, field); ok {
		return v, true
	}

	switch field {
	case patterns.FieldDescription:
		return "", false
	case patterns.FieldSalary:
		return f.signals.Salary(raw)
	}

	// Title labels are matched against visible text so that CSS such as
	// "position: relative" in style blocks and attributes is never read as one.
	source := raw
	if field == patterns.FieldTitle {
		source = doc.Text()
	}
	if v, ok := f.fromPatterns(source, kind, field); ok {
		return v, true
	}

	switch field {
	case patterns.FieldTitle:
		return f.fromHeadings(doc, kind)
	case patterns.FieldCompany:
		if kind == types.SourceGeneric {
			if v, ok := doc.Meta("company"); ok && v != "" {
				return v, true
			}
		}
	}
	return "", false
}

func (f *FieldExtractor) fromSelectors(doc markup.Document, kind types.SourceKind, field patterns.Field) (string, bool) {
	for _, selector := range f.lib.SelectorsFor(kind, field) {
		n, ok := doc.SelectOne(selector)
		if !ok {
			continue
		}

		var text string
		if field == patterns.FieldDescription {
			text = n.BlockText()
		} else {
			text = n.Text()
		}
		if text != "" {
			return text, true
		}
	}
	return "", false
}

func (f *FieldExtractor) fromPatterns(raw string, kind types.SourceKind, field patterns.Field) (string, bool) {
	for _, re := range f.lib.PatternsFor(kind, field) {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		v := m[0]
		if len(m) > 1 {
			v = m[1]
		}
		if v = collapseSpaces(v); v != "" {
			return v, true
		}
	}
	return "", false
}

func (f *FieldExtractor) fromHeadings(doc markup.Document, kind types.SourceKind) (string, bool) {
	selectors := []string{"h1"}
	if kind == types.SourceGeneric {
		selectors = append(selectors, "h1, h2, h3")
	}
	for _, selector := range selectors {
		if n, ok := doc.SelectOne(selector); ok {
			if text := n.Text(); text != "" {
				return text, true
			}
		}
	}

	if kind != types.SourceGeneric {
		return "", false
	}
	title := doc.Title()
	if f.lib.TitleSuffix != nil {
		title = f.lib.TitleSuffix.ReplaceAllString(title, "")
	}
	title = strings.TrimSpace(title)
	return title, title != ""
}
