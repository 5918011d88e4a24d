package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/job-parser/internal/markup"
	"github.com/jonathan/job-parser/internal/patterns"
)

// Sections holds the list sections found in a job description.
type Sections struct {
	Requirements     []string
	Responsibilities []string
	Benefits         []string
}

func emptySections() Sections {
	return Sections{
		Requirements:     []string{},
		Responsibilities: []string{},
		Benefits:         []string{},
	}
}

// Segmenter locates section headings in description text and extracts the
// items under each.
type Segmenter struct {
	headers patterns.SectionHeaders
	items   *ItemExtractor
}

// NewSegmenter builds a Segmenter from the library's heading patterns.
func NewSegmenter(lib *patterns.Library) *Segmenter {
	return &Segmenter{headers: lib.Headers, items: NewItemExtractor(lib)}
}

var defaultSegmenter = NewSegmenter(patterns.Default())

// Segment splits description text using the built-in tables.
func Segment(description string) Sections {
	return defaultSegmenter.Segment(description)
}

// Segment finds the requirements and responsibilities headings independently.
// The requirements span ends at the responsibilities heading when that comes
// later, otherwise at the end of the text. The responsibilities span ends at
// the nearest following section heading.
func (s *Segmenter) Segment(description string) Sections {
	out := emptySections()
	if description == "" {
		return out
	}
	description = lineEndings.Replace(description)

	req := s.headers.Requirements.FindStringIndex(description)
	resp := s.headers.Responsibilities.FindStringIndex(description)

	if req != nil {
		end := len(description)
		if resp != nil && resp[0] > req[0] {
			end = resp[0]
		}
		out.Requirements = s.items.Extract(description[req[1]:end])
	}

	if resp != nil {
		end := nextHeading(description, resp[1], s.headers.NextSection, s.headers.Requirements)
		out.Responsibilities = s.items.Extract(description[resp[1]:end])
	}

	if benefits := s.headers.Benefits.FindStringIndex(description); benefits != nil {
		end := nextHeading(description, benefits[1],
			s.headers.NextSection, s.headers.Requirements, s.headers.Responsibilities)
		out.Benefits = s.items.Extract(description[benefits[1]:end])
	}

	return out
}

// SegmentDocument finds section headings among heading elements and takes
// items from the first list-like sibling after each.
func (s *Segmenter) SegmentDocument(doc markup.Document) Sections {
	out := emptySections()
	for _, heading := range doc.SelectAll("h1, h2, h3, h4, h5, h6, strong") {
		text := heading.Text()
		var target *[]string
		switch {
		case s.headers.Requirements.MatchString(text):
			target = &out.Requirements
		case s.headers.Responsibilities.MatchString(text):
			target = &out.Responsibilities
		case s.headers.Benefits.MatchString(text):
			target = &out.Benefits
		default:
			continue
		}
		if len(*target) > 0 {
			continue
		}
		if sibling, ok := heading.NextSibling("ul, ol, div, p"); ok {
			*target = s.items.ExtractNode(sibling)
		}
	}
	return out
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// nextHeading returns the offset of the earliest match of any pattern at or
// after start, or len(text).
func nextHeading(text string, start int, candidates ...*regexp.Regexp) int {
	end := len(text)
	rest := text[start:]
	for _, re := range candidates {
		if loc := re.FindStringIndex(rest); loc != nil && start+loc[0] < end {
			end = start + loc[0]
		}
	}
	return end
}
