package parsing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/job-parser/internal/markup"
	"github.com/jonathan/job-parser/internal/patterns"
)

var (
	bulletLine   = regexp.MustCompile(`(?m)^[ \t]*[•·▪◦‣*–-][ \t]*(\S.*)$`)
	numberedLine = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+(\S.*)$`)
	commaGap     = regexp.MustCompile(`,\s*`)
)

// ItemExtractor splits a block of text into list items.
type ItemExtractor struct {
	headerPrefixes []string
}

// NewItemExtractor builds an ItemExtractor from the library's heading prefixes.
func NewItemExtractor(lib *patterns.Library) *ItemExtractor {
	return &ItemExtractor{headerPrefixes: lib.HeaderPrefixes}
}

var defaultItems = NewItemExtractor(patterns.Default())

// ExtractItems splits text into list items using the built-in tables.
func ExtractItems(text string) []string {
	return defaultItems.Extract(text)
}

// ExtractNodeItems extracts list items from a markup fragment using the
// built-in tables.
func ExtractNodeItems(n markup.Node) []string {
	return defaultItems.ExtractNode(n)
}

// Extract tries, in order: bullet lines, numbered lines, plain lines, and
// comma-separated phrases. The first strategy that yields any item wins.
func (x *ItemExtractor) Extract(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}

	strategies := []func(string) []string{
		bulletItems,
		numberedItems,
		x.lineItems,
		commaItems,
	}
	for _, strategy := range strategies {
		if items := NormalizeItems(strategy(text)); len(items) > 0 {
			return items
		}
	}
	return []string{}
}

// ExtractNode prefers the fragment's <li> elements and falls back to its text.
func (x *ItemExtractor) ExtractNode(n markup.Node) []string {
	if n == nil {
		return []string{}
	}

	lis := n.SelectAll("li")
	if len(lis) > 0 {
		texts := make([]string, 0, len(lis))
		for _, li := range lis {
			texts = append(texts, li.Text())
		}
		if items := NormalizeItems(texts); len(items) > 0 {
			return items
		}
	}
	return x.Extract(n.BlockText())
}

func bulletItems(text string) []string {
	return captures(bulletLine, text)
}

func numberedItems(text string) []string {
	return captures(numberedLine, text)
}

func (x *ItemExtractor) lineItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < 5 {
			continue
		}
		if x.isHeading(line) || isShoutedHeading(line) {
			continue
		}
		items = append(items, line)
	}
	return items
}

func (x *ItemExtractor) isHeading(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range x.headerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// commaItems splits at commas followed by a capital letter.
func commaItems(text string) []string {
	var items []string
	start := 0
	for _, loc := range commaGap.FindAllStringIndex(text, -1) {
		r, _ := utf8.DecodeRuneInString(text[loc[1]:])
		if !unicode.IsUpper(r) {
			continue
		}
		items = append(items, text[start:loc[0]])
		start = loc[1]
	}
	return append(items, text[start:])
}

func captures(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}
