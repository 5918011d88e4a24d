package parsing

import (
	"net/url"
	"strings"

	"github.com/jonathan/job-parser/internal/patterns"
	"github.com/jonathan/job-parser/internal/types"
)

// SourceDetector classifies a raw document.
type SourceDetector interface {
	Detect(raw string) types.SourceKind
}

// ProbeDetector checks each source's substring probes in priority order.
type ProbeDetector struct {
	probes []patterns.SourceProbe
}

// NewProbeDetector builds a ProbeDetector from the library's probe table.
func NewProbeDetector(lib *patterns.Library) *ProbeDetector {
	return &ProbeDetector{probes: lib.SourceProbes}
}

var defaultDetector = NewProbeDetector(patterns.Default())

// DetectSource classifies raw using the built-in probes.
func DetectSource(raw string) types.SourceKind {
	return defaultDetector.Detect(raw)
}

// Detect returns the first source with a probe occurring in the lower-cased
// document, or SourceGeneric.
func (d *ProbeDetector) Detect(raw string) types.SourceKind {
	lower := strings.ToLower(raw)
	for _, source := range d.probes {
		for _, probe := range source.Probes {
			if strings.Contains(lower, probe) {
				return source.Kind
			}
		}
	}
	return types.SourceGeneric
}

// DetectSourceFromURL identifies the job board from a posting URL's host.
func DetectSourceFromURL(urlStr string) types.SourceKind {
	parsed, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return types.SourceGeneric
	}

	host := strings.ToLower(parsed.Hostname())

	// LinkedIn patterns
	if host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com") || host == "lnkd.in" {
		return types.SourceLinkedIn
	}

	// Indeed patterns (country sites use indeed.<tld> or <cc>.indeed.com)
	if host == "indeed.com" || strings.HasSuffix(host, ".indeed.com") || strings.HasPrefix(host, "indeed.") {
		return types.SourceIndeed
	}

	return types.SourceGeneric
}
