package patterns

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/job-parser/internal/types"
)

// Overlay is a YAML document that extends the built-in tables. Selectors and
// regex patterns are tried before the built-in ones; keywords are appended.
//
//	sources:
//	  linkedin:
//	    selectors:
//	      company: [".new-company-class"]
//	    patterns:
//	      location: ['(?i)based in ([^<\n]+)']
//	    probes: ["lnkd.in"]
//	remote_keywords: ["anywhere"]
type Overlay struct {
	Sources        map[string]SourceOverlay `yaml:"sources"`
	RemoteKeywords []string                 `yaml:"remote_keywords"`
	HybridKeywords []string                 `yaml:"hybrid_keywords"`
	OnsiteKeywords []string                 `yaml:"onsite_keywords"`
}

// SourceOverlay holds per-source additions.
type SourceOverlay struct {
	Selectors map[string][]string `yaml:"selectors"`
	Patterns  map[string][]string `yaml:"patterns"`
	Probes    []string            `yaml:"probes"`
}

// OverlayError reports a malformed overlay file.
type OverlayError struct {
	Message string
	Cause   error
}

func (e *OverlayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pattern overlay: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("pattern overlay: %s", e.Message)
}

func (e *OverlayError) Unwrap() error {
	return e.Cause
}

// LoadOverlay reads and decodes an overlay file.
func LoadOverlay(path string) (*Overlay, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &OverlayError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}

	var ov Overlay
	if err := yaml.Unmarshal(b, &ov); err != nil {
		return nil, &OverlayError{Message: fmt.Sprintf("failed to decode %s", path), Cause: err}
	}
	return &ov, nil
}

// ApplyOverlay returns a copy of l with ov merged in. l is left untouched.
func (l *Library) ApplyOverlay(ov *Overlay) (*Library, error) {
	out := l.Clone()
	if ov == nil {
		return out, nil
	}

	for name, src := range ov.Sources {
		kind, err := types.ParseSourceKind(name)
		if err != nil {
			return nil, &OverlayError{Message: "unknown source", Cause: err}
		}

		for fieldName, sels := range src.Selectors {
			field, err := parseField(fieldName)
			if err != nil {
				return nil, err
			}
			if out.Selectors[kind] == nil {
				out.Selectors[kind] = make(map[Field][]string)
			}
			out.Selectors[kind][field] = append(cloneStrings(sels), out.Selectors[kind][field]...)
		}

		for fieldName, exprs := range src.Patterns {
			field, err := parseField(fieldName)
			if err != nil {
				return nil, err
			}
			compiled := make([]*regexp.Regexp, 0, len(exprs))
			for _, expr := range exprs {
				re, err := regexp.Compile(expr)
				if err != nil {
					return nil, &OverlayError{Message: fmt.Sprintf("bad %s/%s pattern %q", name, fieldName, expr), Cause: err}
				}
				compiled = append(compiled, re)
			}
			if out.FieldPatterns[kind] == nil {
				out.FieldPatterns[kind] = make(map[Field][]*regexp.Regexp)
			}
			out.FieldPatterns[kind][field] = append(compiled, out.FieldPatterns[kind][field]...)
		}

		if len(src.Probes) > 0 {
			if kind == types.SourceGeneric {
				return nil, &OverlayError{Message: "generic source cannot have probes"}
			}
			out.addProbes(kind, src.Probes)
		}
	}

	out.RemoteKeywords = append(out.RemoteKeywords, lower(ov.RemoteKeywords)...)
	out.HybridKeywords = append(out.HybridKeywords, lower(ov.HybridKeywords)...)
	out.OnsiteKeywords = append(out.OnsiteKeywords, lower(ov.OnsiteKeywords)...)
	return out, nil
}

func (l *Library) addProbes(kind types.SourceKind, probes []string) {
	for i := range l.SourceProbes {
		if l.SourceProbes[i].Kind == kind {
			l.SourceProbes[i].Probes = append(l.SourceProbes[i].Probes, lower(probes)...)
			return
		}
	}
	l.SourceProbes = append(l.SourceProbes, SourceProbe{Kind: kind, Probes: lower(probes)})
}

func parseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", &OverlayError{Message: fmt.Sprintf("unknown field %q", name)}
}
