package types

import (
	"fmt"
	"strings"
)

// SourceKind identifies the job board family whose markup conventions apply to a document.
type SourceKind string

const (
	// SourceLinkedIn is a LinkedIn job posting
	SourceLinkedIn SourceKind = "linkedin"
	// SourceIndeed is an Indeed job posting
	SourceIndeed SourceKind = "indeed"
	// SourceGeneric is any unrecognized job posting
	SourceGeneric SourceKind = "generic"
)

// SourceKinds lists every source in detection priority order.
var SourceKinds = []SourceKind{SourceLinkedIn, SourceIndeed, SourceGeneric}

func (k SourceKind) String() string {
	return string(k)
}

// ParseSourceKind converts a name such as "LinkedIn" to a SourceKind.
func ParseSourceKind(name string) (SourceKind, error) {
	kind := SourceKind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range SourceKinds {
		if kind == known {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown source kind: %q", name)
}
